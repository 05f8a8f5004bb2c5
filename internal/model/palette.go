package model

// Swatch is a named palette token offered by the design editor.
type Swatch struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Palette struct {
	Primary []Swatch `json:"primary"`
	Accent  []Swatch `json:"accent"`
}

// ThemePalette lists the colors a user can pick from. Theme values are not
// restricted to it; any token is stored as given.
var ThemePalette = Palette{
	Primary: []Swatch{
		{Name: "Blue", Value: "bg-blue-600"},
		{Name: "Green", Value: "bg-green-600"},
		{Name: "Indigo", Value: "bg-indigo-600"},
		{Name: "Slate", Value: "bg-slate-800"},
	},
	Accent: []Swatch{
		{Name: "Pink", Value: "bg-pink-500"},
		{Name: "Teal", Value: "bg-teal-500"},
		{Name: "Yellow", Value: "bg-yellow-500"},
		{Name: "Orange", Value: "bg-orange-500"},
	},
}

type TemplateInfo struct {
	ID       TemplateID `json:"id"`
	Name     string     `json:"name"`
	ImageURL string     `json:"imageUrl"`
}

var Templates = []TemplateInfo{
	{ID: TemplateModern, Name: "Modern", ImageURL: "https://picsum.photos/seed/modern/400/500"},
	{ID: TemplateMinimalist, Name: "Minimalist", ImageURL: "https://picsum.photos/seed/minimalist/400/500"},
	{ID: TemplateExecutive, Name: "Executive", ImageURL: "https://picsum.photos/seed/executive/400/500"},
	{ID: TemplateCreativeSplit, Name: "Creative Split", ImageURL: "https://picsum.photos/seed/creative/400/500"},
}
