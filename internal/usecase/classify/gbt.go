package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Tree is one regression tree in node-array form. A node i is a leaf when
// Feature[i] < 0, in which case Value[i] is its output; otherwise the
// walk continues left when x[Feature[i]] < Threshold[i], right otherwise.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

func (t *Tree) validate() error {
	n := len(t.Feature)
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return fmt.Errorf("tree: inconsistent node arrays (%d/%d/%d/%d/%d)",
			n, len(t.Threshold), len(t.Left), len(t.Right), len(t.Value))
	}
	for i := 0; i < n; i++ {
		if t.Feature[i] < 0 {
			continue
		}
		if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
			return fmt.Errorf("tree: node %d has child out of range", i)
		}
	}
	return nil
}

func (t *Tree) predict(x []float64) float64 {
	node := 0
	for t.Feature[node] >= 0 {
		f := t.Feature[node]
		v := 0.0
		if f < len(x) {
			v = x[f]
		}
		if v < t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}

// GBTModel is a fitted gradient-boosted tree binary classifier. The raw
// margin (base score plus tree outputs) passes through a sigmoid to yield
// a match probability.
type GBTModel struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
}

// LoadModel reads a trained model from its JSON artifact.
func LoadModel(path string) (*GBTModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier model: %w", err)
	}
	var m GBTModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode classifier model %s: %w", path, err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("classifier model %s: no trees", path)
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(); err != nil {
			return nil, fmt.Errorf("classifier model %s: tree %d: %w", path, i, err)
		}
	}
	return &m, nil
}

// Score builds the embedding-difference feature vector (|q-c| followed by
// q*c, element-wise) and returns the model's match probability scaled to
// 0-100. Mismatched embedding widths score 0: the pair cannot be compared.
func (m *GBTModel) Score(query, candidate []float32) float64 {
	if len(query) != len(candidate) || len(query) == 0 {
		return 0
	}
	x := DiffFeatures(query, candidate)
	margin := m.BaseScore
	for i := range m.Trees {
		margin += m.Trees[i].predict(x)
	}
	return sigmoid(margin) * 100
}

// DiffFeatures is the classifier input layout: concat(|q-c|, q*c).
func DiffFeatures(query, candidate []float32) []float64 {
	n := len(query)
	x := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		q := float64(query[i])
		c := float64(candidate[i])
		x[i] = math.Abs(q - c)
		x[n+i] = q * c
	}
	return x
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
