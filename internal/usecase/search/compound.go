package search

import (
	"fmt"
	"math"

	"github.com/fafadlian/similaritySearch-V3/internal/domain/similarity"
)

// Weights is the fixed linear blend producing the Compound Similarity
// Score. The seven weights must sum to 1.
type Weights struct {
	Firstname   float64
	Surname     float64
	DOB         float64
	Age         float64
	Address     float64
	Origin      float64
	Destination float64
}

// DefaultWeights is the canonical production blend.
var DefaultWeights = Weights{
	Firstname:   0.35,
	Surname:     0.25,
	DOB:         0.10,
	Age:         0.05,
	Address:     0.10,
	Origin:      0.075,
	Destination: 0.075,
}

// Sum returns the total blend weight.
func (w Weights) Sum() float64 {
	return w.Firstname + w.Surname + w.DOB + w.Age + w.Address + w.Origin + w.Destination
}

// Validate checks that the blend is a convex combination.
func (w Weights) Validate() error {
	if sum := w.Sum(); math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("compound weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Compound blends the component similarities into one score, rounded to 4
// decimals. Non-finite components count as 0 so the result always orders
// totally.
func (w Weights) Compound(f similarity.Features) float64 {
	score := w.Firstname*f.FNSimilarity.Finite() +
		w.Surname*f.SNSimilarity.Finite() +
		w.DOB*f.DOBSimilarity.Finite() +
		w.Age*f.AgeSimilarity.Finite() +
		w.Address*f.StrAddressSimilarity.Finite() +
		w.Origin*f.OriginSimilarity.Finite() +
		w.Destination*f.DestinationSimilarity.Finite()
	return round4(score)
}

func round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*1e4) / 1e4
}
