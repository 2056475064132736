package library

import "strings"

// matchThreshold is the minimum word-overlap similarity for a fuzzy match.
const matchThreshold = 0.6

// MatchTitle reports whether a user-supplied search string matches a library
// title. Checks, in order: case-insensitive exact match, substring match,
// and word-set Jaccard similarity against the threshold.
func MatchTitle(search, target string) bool {
	searchLower := strings.ToLower(strings.TrimSpace(search))
	targetLower := strings.ToLower(target)

	if searchLower == targetLower {
		return true
	}
	if searchLower != "" && strings.Contains(targetLower, searchLower) {
		return true
	}
	return wordSimilarity(searchLower, targetLower) >= matchThreshold
}

// wordSimilarity computes Jaccard similarity over whitespace-split word sets.
func wordSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// matchGenre reports whether any of the item's genres contains the search
// term (case-insensitive substring).
func matchGenre(search string, genres []string) bool {
	searchLower := strings.ToLower(search)
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), searchLower) {
			return true
		}
	}
	return false
}
