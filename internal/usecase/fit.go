package usecase

import (
	"math"
	"regexp"
	"strings"
)

// PageSize is a page format in PDF points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
	A4     = PageSize{Name: "A4", Width: 595, Height: 842}
)

// ParsePageSize maps a configured page name to a format, defaulting to Letter.
func ParsePageSize(name string) PageSize {
	if strings.EqualFold(strings.TrimSpace(name), A4.Name) {
		return A4
	}
	return Letter
}

// Fit describes how a raster lands on the page.
type Fit struct {
	// Width and Height of the drawn image in points.
	Width  float64
	Height float64
	// CropHeight is how many source rows fit on the page.
	CropHeight int
	// Truncated is set when the raster is taller than the page.
	Truncated bool
}

// FitToPage scales a srcW x srcH raster to the full page width, keeping its
// aspect ratio. Content below the first page is cut off.
func FitToPage(srcW, srcH int, page PageSize) Fit {
	if srcW <= 0 || srcH <= 0 {
		return Fit{}
	}
	f := Fit{
		Width:      page.Width,
		Height:     float64(srcH) * page.Width / float64(srcW),
		CropHeight: srcH,
	}
	if f.Height > page.Height {
		f.Truncated = true
		f.CropHeight = int(math.Floor(page.Height * float64(srcW) / page.Width))
		f.Height = float64(f.CropHeight) * page.Width / float64(srcW)
	}
	return f
}

var whitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`)

// FileName derives the download name from a document title: every whitespace
// character becomes an underscore.
func FileName(title string) string {
	return whitespace.ReplaceAllString(title, "_") + ".pdf"
}
