package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

var ErrInvalidDocument = errors.New("invalid resume document")

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	})
	return schema, schemaErr
}

// ValidateJSON validates a whole serialized document against the resume
// schema. It is used at import boundaries only; edits are never validated.
func ValidateJSON(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("load resume schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// Decode validates raw and decodes it into a Resume. Rich-text fields are
// sanitized while decoding.
func Decode(raw []byte) (Resume, error) {
	if err := ValidateJSON(raw); err != nil {
		return Resume{}, err
	}
	var r Resume
	if err := json.Unmarshal(raw, &r); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	seen := make(map[string]bool)
	r.Experience = uniqueIDs(r.Experience, seen)
	r.Education = uniqueIDs(r.Education, seen)
	r.CustomSections = uniqueIDs(r.CustomSections, seen)
	return r.withEmptyLists(), nil
}
