package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Generated column aliases may contain anything printable; control characters are rejected.
	IdentifierPattern = `^[^\x00-\x1f\x7f]+$`

	// PostgreSQL truncates identifiers longer than NAMEDATALEN-1 bytes.
	IdentifierMaxLength = 63
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Identifier *regexp.Regexp
}{
	Identifier: regexp.MustCompile(IdentifierPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in bytes
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// IsValidIdentifier reports whether name can be used as a generated column alias.
func IsValidIdentifier(name string) bool {
	return NewStringValidation(name).
		WithMaxLength(IdentifierMaxLength).
		WithPattern(CompiledPatterns.Identifier).
		Validate()
}
