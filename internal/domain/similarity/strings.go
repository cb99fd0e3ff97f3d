package similarity

import (
	"math"
	"strings"
)

// Ratio returns the normalized edit-distance similarity of two strings,
// scaled 0-100. It matches the classic fuzz.ratio: an indel alignment
// where substitutions cost 2, so identical strings score 100 and disjoint
// strings score 0. Comparison is case-insensitive.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 100
	}
	lensum := len(a) + len(b)
	if lensum == 0 {
		return 100
	}
	dist := indelDistance(a, b)
	return math.Round(100 * float64(lensum-dist) / float64(lensum))
}

// indelDistance is the Levenshtein distance with substitution cost 2,
// i.e. the minimum number of insertions and deletions turning a into b.
func indelDistance(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = min(prev[j-1]+2, min(prev[j]+1, curr[j-1]+1))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// TrigramJaccard returns the Jaccard similarity of the character trigram
// sets of two strings, scaled 0-100. A side with no valid trigrams (fewer
// than three characters) yields no signal rather than 0.
func TrigramJaccard(a, b string) float64 {
	setA := trigrams(strings.ToLower(a))
	setB := trigrams(strings.ToLower(b))
	if len(setA) == 0 || len(setB) == 0 {
		return math.NaN()
	}
	var intersection int
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return 100 * float64(intersection) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	runes := []rune(s)
	if len(runes) < 3 {
		return nil
	}
	set := make(map[string]struct{}, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// Exact returns 100 when the two values are equal after trimming and
// lowercasing, 0 when they differ, and no signal when either is empty.
func Exact(a, b string) float64 {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))
	if a == "" || b == "" {
		return math.NaN()
	}
	if a == b {
		return 100
	}
	return 0
}
