package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTitles = []string{"Dipl.-Ing.", "DI.", "Dr.", "Mag.", "B.Sc.", "M.Sc."}

func TestNameParser_Parse(t *testing.T) {
	parser := NewNameParser(testTitles)

	tests := []struct {
		name string
		raw  string
		want LecturerName
	}{
		{
			name: "rank, one title, name",
			raw:  "Assoc.-Prof. Dr. Jane Doe",
			want: LecturerName{Rank: "Assoc.-Prof.", Titles: "Dr.", Name: "Jane Doe"},
		},
		{
			name: "multiple titles",
			raw:  "Univ.-Prof. Dipl.-Ing. Dr. Max Mustermann",
			want: LecturerName{Rank: "Univ.-Prof.", Titles: "Dipl.-Ing., Dr.", Name: "Max Mustermann"},
		},
		{
			name: "title after the name still counts as title",
			raw:  "Lecturer Mag. Anna Berger M.Sc.",
			want: LecturerName{Rank: "Lecturer", Titles: "Mag., M.Sc.", Name: "Anna Berger"},
		},
		{
			name: "multi word rank and extra spaces",
			raw:  "  Senior  Scientist   DI.  Lukas   Huber ",
			want: LecturerName{Rank: "Senior Scientist", Titles: "DI.", Name: "Lukas Huber"},
		},
		{
			name: "no rank",
			raw:  "Dr. John Smith",
			want: LecturerName{Titles: "Dr.", Name: "John Smith"},
		},
		{
			name: "no recognized title puts everything into rank",
			raw:  "Prof. John Smith",
			want: LecturerName{Rank: "Prof. John Smith"},
		},
		{
			name: "empty",
			raw:  "",
			want: LecturerName{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.Parse(tt.raw))
		})
	}
}

func TestLecturerName_HasName(t *testing.T) {
	parser := NewNameParser(testTitles)

	assert.True(t, parser.Parse("Dr. Jane Doe").HasName())
	assert.False(t, parser.Parse("Assoc.-Prof. Jane Doe").HasName())
}

func TestNameParser_TitleSetIsConfiguration(t *testing.T) {
	parser := NewNameParser([]string{"PhD", " ", ""})

	assert.Equal(t, LecturerName{Rank: "Prof.", Titles: "PhD", Name: "Ada Lovelace"}, parser.Parse("Prof. PhD Ada Lovelace"))
	assert.Equal(t, LecturerName{Rank: "Dr. Ada Lovelace"}, parser.Parse("Dr. Ada Lovelace"))
}
