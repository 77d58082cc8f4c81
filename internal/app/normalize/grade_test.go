package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestGrade(t *testing.T) {
	tests := []struct {
		token string
		want  *int
	}{
		{"not graded", nil},
		{"not taken", nil},
		{"failed", intPtr(FailedGrade)},
		{"3", intPtr(3)},
		{"1", intPtr(1)},
		{" 2 ", intPtr(2)},
		{"4 (oral)", intPtr(4)},
		{"xyz", nil},
		{"", nil},
		{"0", nil},
		{"Failed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.token))
		})
	}
}

func TestGrade_FailedCollapsesOntoFive(t *testing.T) {
	assert.Equal(t, Grade("5"), Grade("failed"))
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"6", 6, true},
		{"7.5", 7, true},
		{"-2", -2, true},
		{"+4", 4, true},
		{"  12abc", 12, true},
		{"abc", 0, false},
		{"-", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LeadingInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestECTS(t *testing.T) {
	assert.Equal(t, intPtr(6), ECTS("6"))
	assert.Equal(t, intPtr(0), ECTS("0"))
	assert.Nil(t, ECTS("n/a"))
}
