package forms

import (
	"errors"
	"sort"
	"strings"
)

// ErrFormNotValid is returned by Save when the form has not passed validation.
var ErrFormNotValid = errors.New("form is not valid")

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

// Add appends msg to the field's messages.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether field already carries an error.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// ValidationError carries per-field messages back to the caller for redisplay.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func fieldErrorsOrNil(fe FieldErrors) error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}
