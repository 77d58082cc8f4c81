package normalize

import "strings"

// LecturerName is a raw lecturer name split into its parts.
type LecturerName struct {
	Rank   string
	Titles string // recognized titles joined by ", "
	Name   string
}

// HasName reports whether a personal name was found. It is false when no recognized
// title appeared in the raw string, in which case everything landed in Rank.
func (n LecturerName) HasName() bool {
	return n.Name != ""
}

// NameParser splits lecturer names using a fixed title vocabulary.
type NameParser struct {
	titles map[string]struct{}
}

// NewNameParser builds a parser recognizing exactly the given title tokens.
func NewNameParser(titles []string) *NameParser {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return &NameParser{titles: set}
}

// Parse splits raw into rank, titles and name.
//
// Tokens before the first recognized title form the rank. Every recognized title is
// collected into Titles wherever it appears. Other tokens after the first title form
// the personal name.
func (p *NameParser) Parse(raw string) LecturerName {
	var rank, titles, name []string
	seenTitle := false

	for _, tok := range strings.Fields(raw) {
		switch _, isTitle := p.titles[tok]; {
		case isTitle:
			titles = append(titles, tok)
			seenTitle = true
		case !seenTitle:
			rank = append(rank, tok)
		default:
			name = append(name, tok)
		}
	}

	return LecturerName{
		Rank:   strings.Join(rank, " "),
		Titles: strings.Join(titles, ", "),
		Name:   strings.Join(name, " "),
	}
}
