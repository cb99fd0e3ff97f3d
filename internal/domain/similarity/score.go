// Package similarity provides the per-field similarity, rarity, and
// probability primitives used to compare a query profile against candidate
// passenger records.
//
// Scores are 0-100 floats. NaN is the "no signal" value: it marks a
// comparison that could not be made because one side was missing, which is
// deliberately distinguished from a real similarity of 0. NaN never leaves
// the core; it serializes as JSON null and is coerced to 0 for scoring.
package similarity

import (
	"math"
	"strconv"
)

// NoSignal is the score for a comparison with a missing side.
func NoSignal() Score { return Score(math.NaN()) }

// Score is a similarity/rarity/probability value. Non-finite values
// serialize as JSON null, the boundary sentinel for "no signal".
type Score float64

// MarshalJSON writes the score, or null when it is NaN or infinite.
func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

// UnmarshalJSON reads a score, mapping null back to NaN.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSignal()
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// Finite returns the score with NaN and infinities replaced by 0, the
// neutral value required before blending and filtering.
func (s Score) Finite() float64 {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsSignal reports whether the score carries an actual comparison result.
func (s Score) IsSignal() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
