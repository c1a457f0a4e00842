// Package recording models the two untrusted inputs of the wrapper: the
// processing stage and the recording identifier.
package recording

import (
	"errors"
	"regexp"
)

// IDPattern is the grammar every recording identifier must match: a 40 character
// lowercase hex meeting ID, a hyphen and a decimal timestamp.
const IDPattern = `^[a-f0-9]{40}-[0-9]+$`

// ErrInvalidID is returned when a recording identifier does not match IDPattern.
var ErrInvalidID = errors.New("recording id is not correct format")

var defaultValidator = NewValidator()

// ID is a recording identifier that has passed validation. The only way to
// obtain a non-zero ID is through a Validator.
type ID struct {
	value string
}

// String returns the identifier text.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether id was never validated.
func (id ID) IsZero() bool {
	return id.value == ""
}

// Validator checks recording identifiers against IDPattern. It is immutable
// after construction and safe for concurrent use.
type Validator struct {
	pattern *regexp.Regexp
}

// NewValidator compiles IDPattern.
func NewValidator() *Validator {
	return &Validator{pattern: regexp.MustCompile(IDPattern)}
}

// Valid reports whether s is a well-formed recording identifier.
func (v *Validator) Valid(s string) bool {
	return v.pattern.MatchString(s)
}

// Parse returns s as an ID, or ErrInvalidID.
func (v *Validator) Parse(s string) (ID, error) {
	if !v.Valid(s) {
		return ID{}, ErrInvalidID
	}
	return ID{value: s}, nil
}

// ValidID reports whether s is a well-formed recording identifier.
func ValidID(s string) bool {
	return defaultValidator.Valid(s)
}

// ParseID validates s with the shared validator.
func ParseID(s string) (ID, error) {
	return defaultValidator.Parse(s)
}
