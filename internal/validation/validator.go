package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/publishing-api/internal/apperr"
)

// FieldError represents a single validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors for a single input
type Validator struct {
	errors []FieldError
	seen   map[string]bool
}

// New creates a new validator instance
func New() *Validator {
	return &Validator{seen: make(map[string]bool)}
}

// AddError records an error for field. Only the first error per field is kept.
func (v *Validator) AddError(field, message string) {
	if v.seen[field] {
		return
	}
	v.seen[field] = true
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// Check adds an error when ok is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that value is not blank
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// MaxLength checks value length in characters, not bytes
func (v *Validator) MaxLength(field, value string, max int) {
	v.Check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("must be at most %d characters", max))
}

// OneOf checks value against an allowed set
func (v *Validator) OneOf(field, value string, allowed map[string]bool) {
	if allowed[value] {
		return
	}
	options := make([]string, 0, len(allowed))
	for k := range allowed {
		options = append(options, k)
	}
	sort.Strings(options)
	v.AddError(field, "must be one of: "+strings.Join(options, ", "))
}

// Valid reports whether no errors were recorded
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the recorded field errors in insertion order
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err converts the collected errors into a validation error, or nil
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	details := make(map[string]string, len(v.errors))
	parts := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		details[e.Field] = e.Message
		parts = append(parts, e.Field+" "+e.Message)
	}
	return apperr.ValidationFields(strings.Join(parts, "; "), details)
}
