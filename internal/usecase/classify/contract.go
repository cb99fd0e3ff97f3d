// Package classify is the optional secondary scoring path: a learned
// model over embedding-difference features that re-scores candidates
// independently of vector retrieval.
package classify

// Scorer scores how likely two embeddings describe the same person,
// returning a confidence in [0, 100]. Implementations must be safe for
// concurrent use.
type Scorer interface {
	Score(query, candidate []float32) float64
}
