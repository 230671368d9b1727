package model

import (
	"errors"
	"strings"
)

// Sentinel kinds matched with errors.Is.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrFieldType     = errors.New("wrong field type")
)

// MissingFieldsError lists required form fields that were not sent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is reports ErrMissingFields.
func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingFields }

// FieldTypeError lists fields sent with the wrong part type, e.g. "files" as
// plain text or "destination" as a file.
type FieldTypeError struct {
	Fields []string
}

func (e *FieldTypeError) Error() string {
	return ErrFieldType.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is reports ErrFieldType.
func (e *FieldTypeError) Is(target error) bool { return target == ErrFieldType }

// Fields extracts the field list from a MissingFieldsError or FieldTypeError.
func Fields(err error) []string {
	var missing *MissingFieldsError
	if errors.As(err, &missing) {
		return missing.Fields
	}
	var wrong *FieldTypeError
	if errors.As(err, &wrong) {
		return wrong.Fields
	}
	return nil
}
