package similarity

import (
	"math"
	"strings"
)

// Counter holds lowercased value counts for one field across a candidate
// set. N is the candidate-set size, not the number of distinct values.
type Counter struct {
	counts map[string]int
	total  int
}

// NewCounter builds a counter from the field values of every candidate.
// Empty values contribute to the set size but not to any count.
func NewCounter(values []string) Counter {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		counts[v]++
	}
	return Counter{counts: counts, total: len(values)}
}

// Likelihood returns the rarity and by-chance match probability of a value,
// both in [0, 100].
//
//	rarity      = min(count/N * 100, 100)
//	probability = min(100/count, 100)
//
// An unseen value gets rarity 100 and probability 0: it looks unique, with
// low risk of matching by chance. An empty value yields no signal.
func (c Counter) Likelihood(v string) (rarity, probability float64) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return math.NaN(), math.NaN()
	}
	count := c.counts[v]
	if count == 0 || c.total == 0 {
		return 100, 0
	}
	rarity = math.Min(float64(count)/float64(c.total)*100, 100)
	probability = math.Min(100/float64(count), 100)
	return rarity, probability
}
