package helpers

import "strings"

// StringOrDefault returns the trimmed value of s, or def when s is nil or blank.
func StringOrDefault(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return strings.TrimSpace(*s)
}

// NullableString keeps absent values absent so they are stored as NULL.
// Present values are trimmed; a blank value is stored as an empty string.
func NullableString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
