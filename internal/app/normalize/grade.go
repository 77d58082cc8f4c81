// Package normalize holds the pure conversions applied to source values before they
// reach the warehouse. None of them perform I/O.
package normalize

import "strings"

// FailedGrade is stored for a failed exam. Failed results collapse onto the worst
// grade of the 1-5 scale, so they are indistinguishable from a numeric 5.
const FailedGrade = 5

const (
	tokenNotGraded = "not graded"
	tokenNotTaken  = "not taken"
	tokenFailed    = "failed"
)

// Grade converts a raw grade token into a warehouse grade.
// Ungraded, untaken and unparseable tokens yield nil; it never fails.
func Grade(token string) *int {
	switch token {
	case tokenNotGraded, tokenNotTaken:
		return nil
	case tokenFailed:
		g := FailedGrade
		return &g
	}

	g, ok := LeadingInt(token)
	if !ok || g == 0 {
		// zero is not a grade on the scale and is treated like a missing value
		return nil
	}
	return &g
}

// LeadingInt parses the integer prefix of s, ignoring leading whitespace and anything
// after the digits ("6 ECTS" -> 6, "3.7" -> 3). ok is false when s has no digits.
func LeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n > (1<<31-1)/10 {
			return 0, false
		}
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ECTS converts a credit value; non-numeric values are dropped (nil).
func ECTS(raw string) *int {
	n, ok := LeadingInt(raw)
	if !ok {
		return nil
	}
	return &n
}
