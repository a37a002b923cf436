package resolve

import (
	"strings"
	"unicode"
)

// suffixTokens are generational suffixes stripped during normalization.
var suffixTokens = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

// NormalizeName canonicalizes a player name for matching: lowercase,
// punctuation stripped, whitespace collapsed, generational suffixes
// removed, and runs of single letters joined so "D.J. Moore" and
// "DJ Moore" normalize identically.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteByte(' ')
		}
		// every other rune (periods, apostrophes, commas) drops
	}

	fields := strings.Fields(b.String())

	var kept []string
	for _, f := range fields {
		if suffixTokens[f] {
			continue
		}
		kept = append(kept, f)
	}

	// Join runs of single-letter initials: "d j moore" -> "dj moore".
	var out []string
	for _, f := range kept {
		if len(f) == 1 && len(out) > 0 && isInitialism(out[len(out)-1]) {
			out[len(out)-1] += f
			continue
		}
		out = append(out, f)
	}

	return strings.Join(out, " ")
}

// isInitialism reports whether a token is a letter run short enough to
// absorb a following single letter (so "a"+"j" -> "aj" but "john"+"p"
// stays split).
func isInitialism(tok string) bool {
	return len(tok) >= 1 && len(tok) <= 2 && !strings.ContainsAny(tok, "0123456789")
}

// Ratio is the edit-distance similarity of two strings on a 0-100 scale:
// 100*(len(a)+len(b)-2*dist)/(len(a)+len(b)). Identical strings score 100,
// disjoint equal-length strings score 0.
func Ratio(a, b string) float64 {
	// Rune lengths, matching the distance below.
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	d := levenshtein(a, b)
	return 100 * float64(la+lb-2*d) / float64(la+lb)
}

// levenshtein computes the edit distance with a two-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
