package schema

import (
	"errors"
	"fmt"

	"github.com/vovanwin/sysctlconf/internal/model"
	"github.com/vovanwin/sysctlconf/pkg/types"
)

// Code classifies a validation failure.
type Code string

const (
	CodeMissing   Code = "missing_field"
	CodeWrongType Code = "wrong_type"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrWrongType    = errors.New("wrong field type")
)

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field    string
	Code     Code
	Expected model.FieldType
	Got      *types.Value // nil for CodeMissing
}

func (e *ValidationError) Error() string {
	switch {
	case e.Code == CodeMissing:
		return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
	case e.Got.IsTable():
		return fmt.Sprintf("field '%s' must be a %s, but found a nested table", e.Field, e.Expected)
	case e.Expected == model.FieldBool:
		return fmt.Sprintf("field '%s' must be a bool ('true'/'false'), got: '%s'", e.Field, e.Got.Str)
	default:
		return fmt.Sprintf("field '%s' must be a %s, got: '%s'", e.Field, e.Expected, e.Got.Str)
	}
}

func (e *ValidationError) Unwrap() error {
	if e.Code == CodeMissing {
		return ErrMissingField
	}
	return ErrWrongType
}

// Validate checks top-level fields in declaration order and stops at the
// first failure. The document is not modified.
func Validate(fields []model.SchemaField, doc *types.Value) error {
	for _, f := range fields {
		v, ok := doc.Get(f.Name)
		if !ok {
			return &ValidationError{Field: f.Name, Code: CodeMissing, Expected: f.Type}
		}
		if !matches(f.Type, v) {
			return &ValidationError{Field: f.Name, Code: CodeWrongType, Expected: f.Type, Got: v}
		}
	}
	return nil
}

func matches(t model.FieldType, v *types.Value) bool {
	switch v.Kind {
	case types.KindString:
		switch t {
		case model.FieldBool:
			return v.Str == "true" || v.Str == "false"
		case model.FieldString:
			return true
		}
	case types.KindTable:
		return false
	}
	return false
}
