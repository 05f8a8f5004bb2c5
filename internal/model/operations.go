package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"resume-builder/internal/richtext"
)

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownList    = errors.New("unknown list")
	ErrImmutableField = errors.New("field cannot be changed")
	ErrInvalidValue   = errors.New("value cannot be decoded")
)

// Field names accepted by UpdateField, matching the JSON names of Resume.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldTemplate       = "template"
	FieldTheme          = "theme"
	FieldContact        = "contact"
	FieldSummary        = "summary"
	FieldExperience     = "experience"
	FieldEducation      = "education"
	FieldSkills         = "skills"
	FieldCustomSections = "customSections"
)

type List string

const (
	ListExperience     List = FieldExperience
	ListEducation      List = FieldEducation
	ListCustomSections List = FieldCustomSections
)

func ParseList(name string) (List, error) {
	switch l := List(name); l {
	case ListExperience, ListEducation, ListCustomSections:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownList, name)
}

// decode accepts either a value of type T or anything that can be turned
// into T through its JSON form (raw JSON, decoded request maps, plain strings).
func decode[T any](value any) (T, error) {
	var out T
	if v, ok := value.(T); ok {
		return v, nil
	}

	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return out, nil
}

// UpdateField replaces one top-level field of doc. The stored value is not
// validated; errors are only returned for unknown fields or values that cannot
// be decoded into the field's type.
func UpdateField(doc Resume, field string, value any) (Resume, error) {
	next := doc.clone()
	var err error
	switch field {
	case FieldID:
		return doc, fmt.Errorf("%w: %s", ErrImmutableField, field)
	case FieldTitle:
		next.Title, err = decode[string](value)
	case FieldTemplate:
		next.Template, err = decode[TemplateID](value)
	case FieldTheme:
		next.Theme, err = decode[Theme](value)
	case FieldContact:
		next.Contact, err = decode[ContactInfo](value)
	case FieldSummary:
		next.Summary, err = decode[richtext.Fragment](value)
	case FieldExperience:
		var items []WorkExperience
		items, err = decode[[]WorkExperience](value)
		next.Experience = uniqueIDs(items, doc.itemIDs(ListExperience))
	case FieldEducation:
		var items []Education
		items, err = decode[[]Education](value)
		next.Education = uniqueIDs(items, doc.itemIDs(ListEducation))
	case FieldSkills:
		var skills []string
		skills, err = decode[[]string](value)
		next.Skills = dedupe(skills)
	case FieldCustomSections:
		var items []CustomSection
		items, err = decode[[]CustomSection](value)
		next.CustomSections = uniqueIDs(items, doc.itemIDs(ListCustomSections))
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err != nil {
		return doc, fmt.Errorf("update %s: %w", field, err)
	}
	return next.withEmptyLists(), nil
}

// AddListItem appends item to the named list. The item keeps its id when it
// is set and unused anywhere in the document; otherwise a fresh id is
// generated. A nil item appends a blank entry.
func AddListItem(doc Resume, list List, item any) (Resume, error) {
	next := doc.clone()
	var err error
	switch list {
	case ListExperience:
		next.Experience, err = addItem(next.Experience, item, NewWorkExperience, doc.itemIDs(""))
	case ListEducation:
		next.Education, err = addItem(next.Education, item, NewEducation, doc.itemIDs(""))
	case ListCustomSections:
		next.CustomSections, err = addItem(next.CustomSections, item, NewCustomSection, doc.itemIDs(""))
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if err != nil {
		return doc, fmt.Errorf("add to %s: %w", list, err)
	}
	return next, nil
}

// UpdateListItem sets one field of the entry identified by id. Rich-text
// fields are sanitized. A missing id leaves the document unchanged.
func UpdateListItem(doc Resume, list List, id, field, value string) (Resume, error) {
	next := doc.clone()
	var (
		err   error
		found bool
	)
	switch list {
	case ListExperience:
		next.Experience, found, err = updateItem(next.Experience, id, field, value)
	case ListEducation:
		next.Education, found, err = updateItem(next.Education, id, field, value)
	case ListCustomSections:
		next.CustomSections, found, err = updateItem(next.CustomSections, id, field, value)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if err != nil {
		return doc, fmt.Errorf("update %s item: %w", list, err)
	}
	if !found {
		return doc, nil
	}
	return next, nil
}

// RemoveListItem deletes the entry identified by id. A missing id returns doc
// unchanged.
func RemoveListItem(doc Resume, list List, id string) (Resume, error) {
	var removed bool
	next := doc.clone()
	switch list {
	case ListExperience:
		next.Experience, removed = removeItem(next.Experience, id)
	case ListEducation:
		next.Education, removed = removeItem(next.Education, id)
	case ListCustomSections:
		next.CustomSections, removed = removeItem(next.CustomSections, id)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if !removed {
		return doc, nil
	}
	return next, nil
}

// AddSkill appends the trimmed skill unless it is empty or already present.
// Matching is exact and case-sensitive.
func AddSkill(doc Resume, skill string) Resume {
	skill = strings.TrimSpace(skill)
	if skill == "" || slices.Contains(doc.Skills, skill) {
		return doc
	}
	next := doc.clone()
	next.Skills = append(next.Skills, skill)
	return next
}

// RemoveSkill removes the first exact match of skill.
func RemoveSkill(doc Resume, skill string) Resume {
	i := slices.Index(doc.Skills, skill)
	if i < 0 {
		return doc
	}
	next := doc.clone()
	next.Skills = slices.Delete(next.Skills, i, i+1)
	return next
}

func dedupe(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
