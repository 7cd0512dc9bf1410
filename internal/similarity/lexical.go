package similarity

import "strings"

// Lexical is the fuzzy string backend: normalized Levenshtein ratio
// over case-folded identifiers. Deterministic, no external state.
type Lexical struct{}

// Name implements Scorer.
func (Lexical) Name() string { return BackendLexical }

// Score implements Scorer.
func (Lexical) Score(a, b string) float64 {
	na, nb := normalizeIdent(a), normalizeIdent(b)
	if na == "" || nb == "" {
		return 0
	}
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	return 1 - float64(levenshtein(na, nb))/float64(maxLen)
}

// normalizeIdent lowercases and strips separator characters so that
// "Subject_ID", "subject-id" and "subject id" compare equal.
func normalizeIdent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
//
// Time O(len(a)*len(b)), space O(min(len(a), len(b))).
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// keep a the shorter string
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
