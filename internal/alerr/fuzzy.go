package alerr

import (
	"fmt"
	"strings"
)

// maxSuggestDistance catches a missing/extra char, a substitution or an adjacent
// swap in short type names without matching unrelated words.
const maxSuggestDistance = 2

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// FindClosestMatch returns the option closest to input, compared case-insensitively.
// Ties keep the earliest option. Returns false when nothing is within maxSuggestDistance.
func FindClosestMatch(input string, options []string) (string, bool) {
	input = strings.ToLower(input)

	bestMatch := ""
	bestDist := maxSuggestDistance + 1
	for _, opt := range options {
		if d := levenshteinDistance(input, strings.ToLower(opt)); d < bestDist {
			bestDist = d
			bestMatch = opt
		}
	}

	if bestDist <= maxSuggestDistance {
		return bestMatch, true
	}
	return "", false
}

// SuggestSimilar returns a "did you mean 'X'?" string if a close match is found,
// or an empty string otherwise.
func SuggestSimilar(input string, options []string) string {
	if match, ok := FindClosestMatch(input, options); ok {
		return fmt.Sprintf("did you mean '%s'?", match)
	}
	return ""
}
