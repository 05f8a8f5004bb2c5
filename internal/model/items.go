package model

import (
	"fmt"
	"slices"

	"resume-builder/internal/richtext"

	"github.com/google/uuid"
)

// entry is implemented by the element types of the document's id-keyed lists.
type entry[T any] interface {
	itemID() string
	withID(id string) T
	withField(field, value string) (T, error)
}

func (w WorkExperience) itemID() string { return w.ID }

func (w WorkExperience) withID(id string) WorkExperience {
	w.ID = id
	return w
}

func (w WorkExperience) withField(field, value string) (WorkExperience, error) {
	switch field {
	case "jobTitle":
		w.JobTitle = value
	case "company":
		w.Company = value
	case "location":
		w.Location = value
	case "startDate":
		w.StartDate = value
	case "endDate":
		w.EndDate = value
	case "description":
		w.Description = richtext.Sanitize(value)
	default:
		return w, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return w, nil
}

func (e Education) itemID() string { return e.ID }

func (e Education) withID(id string) Education {
	e.ID = id
	return e
}

func (e Education) withField(field, value string) (Education, error) {
	switch field {
	case "school":
		e.School = value
	case "degree":
		e.Degree = value
	case "location":
		e.Location = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	default:
		return e, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return e, nil
}

func (c CustomSection) itemID() string { return c.ID }

func (c CustomSection) withID(id string) CustomSection {
	c.ID = id
	return c
}

func (c CustomSection) withField(field, value string) (CustomSection, error) {
	switch field {
	case "title":
		c.Title = value
	case "content":
		c.Content = richtext.Sanitize(value)
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return c, nil
}

func indexOf[T entry[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool { return it.itemID() == id })
}

// addItem appends item, replacing its id when it is blank or already taken
// anywhere in the document.
func addItem[T entry[T]](items []T, item any, blank func() T, taken map[string]bool) ([]T, error) {
	if item == nil {
		return append(items, blank()), nil
	}
	v, err := decode[T](item)
	if err != nil {
		return items, err
	}
	if id := v.itemID(); id == "" || taken[id] {
		v = v.withID(uuid.NewString())
	}
	return append(items, v), nil
}

// updateItem expects items to be a private copy.
func updateItem[T entry[T]](items []T, id, field, value string) ([]T, bool, error) {
	var zero T
	if _, err := zero.withField(field, value); err != nil {
		return items, false, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return items, false, nil
	}
	updated, _ := items[i].withField(field, value)
	items[i] = updated
	return items, true, nil
}

func removeItem[T entry[T]](items []T, id string) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

// collectIDs adds the ids of items to seen.
func collectIDs[T entry[T]](seen map[string]bool, items []T) {
	for _, it := range items {
		seen[it.itemID()] = true
	}
}

// itemIDs returns the ids used by every list of r except skip.
func (r Resume) itemIDs(skip List) map[string]bool {
	seen := make(map[string]bool)
	if skip != ListExperience {
		collectIDs(seen, r.Experience)
	}
	if skip != ListEducation {
		collectIDs(seen, r.Education)
	}
	if skip != ListCustomSections {
		collectIDs(seen, r.CustomSections)
	}
	return seen
}

// uniqueIDs assigns fresh ids to entries whose id is blank, repeated, or
// already in seen, and records the final ids in seen.
func uniqueIDs[T entry[T]](items []T, seen map[string]bool) []T {
	items = slices.Clone(items)
	for i, it := range items {
		id := it.itemID()
		if id == "" || seen[id] {
			id = uuid.NewString()
			items[i] = it.withID(id)
		}
		seen[id] = true
	}
	return items
}
