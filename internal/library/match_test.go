package library

import "testing"

func TestMatchTitle(t *testing.T) {
	tests := []struct {
		name   string
		search string
		target string
		want   bool
	}{
		{"exact", "Breaking Bad", "Breaking Bad", true},
		{"case insensitive", "breaking bad", "Breaking Bad", true},
		{"leading and trailing space", "  breaking bad  ", "Breaking Bad", true},
		{"substring", "matrix", "The Matrix", true},
		{"substring mid-title", "office", "The Office (US)", true},
		{"word overlap above threshold", "lord of the rings", "The Lord of the Rings", true},
		{"word order irrelevant", "rings the of lord the", "The Lord of the Rings", true},
		{"no overlap", "severance", "Breaking Bad", false},
		{"weak overlap below threshold", "the big short", "The Lord of the Rings", false},
		{"empty search", "", "Breaking Bad", false},
		{"single word vs long title", "the", "The Lord of the Rings", true}, // substring
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchTitle(tt.search, tt.target); got != tt.want {
				t.Errorf("MatchTitle(%q, %q) = %v, want %v", tt.search, tt.target, got, tt.want)
			}
		})
	}
}

func TestWordSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "a b c", "a b c", 1},
		{"disjoint", "a b", "c d", 0},
		{"half overlap", "a b", "b c", 1.0 / 3.0},
		{"empty left", "", "a b", 0},
		{"empty both", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("wordSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchGenre(t *testing.T) {
	genres := []string{"Science Fiction", "Drama"}

	if !matchGenre("drama", genres) {
		t.Error("expected case-insensitive genre match")
	}
	if !matchGenre("sci", genres) {
		t.Error("expected substring genre match")
	}
	if matchGenre("comedy", genres) {
		t.Error("expected no match for absent genre")
	}
	if matchGenre("drama", nil) {
		t.Error("expected no match against empty genre list")
	}
}
