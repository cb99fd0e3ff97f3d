package artifact

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Scaler is a fitted standard scaler: x' = (x - mean) / scale per feature.
type Scaler struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

func (s *Scaler) validate() error {
	if len(s.Mean) != len(s.Features) || len(s.Scale) != len(s.Features) {
		return fmt.Errorf("scaler: %d features, %d means, %d scales",
			len(s.Features), len(s.Mean), len(s.Scale))
	}
	return nil
}

// Width returns the number of numeric features the scaler expects.
func (s *Scaler) Width() int { return len(s.Features) }

// Transform scales one row of numeric features in place order.
func (s *Scaler) Transform(vals []float64) ([]float64, error) {
	if len(vals) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: got %d values, want %d", len(vals), len(s.Mean))
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if s.Scale[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// EncoderColumn is the fitted category list of one categorical field.
type EncoderColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Encoder is a fitted one-hot encoder over a fixed set of columns.
// Values outside the fitted categories encode as all zeros.
type Encoder struct {
	Columns []EncoderColumn `json:"columns"`
}

// Width returns the total one-hot width across columns.
func (e *Encoder) Width() int {
	var w int
	for _, c := range e.Columns {
		w += len(c.Categories)
	}
	return w
}

// Transform one-hot encodes one value per column, in column order.
func (e *Encoder) Transform(values []string) ([]float64, error) {
	if len(values) != len(e.Columns) {
		return nil, fmt.Errorf("encoder: got %d values, want %d columns", len(values), len(e.Columns))
	}
	out := make([]float64, 0, e.Width())
	for i, col := range e.Columns {
		v := strings.ToLower(strings.TrimSpace(values[i]))
		for _, cat := range col.Categories {
			if v == strings.ToLower(cat) {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out, nil
}

// TextReducer is a fitted character n-gram TF-IDF vectorizer chained with
// a fitted linear dimensionality reduction (the components matrix of a
// truncated SVD). The TF-IDF vector is L2-normalized before projection,
// matching the training-side convention.
type TextReducer struct {
	NgramSize  int            `json:"ngram_size"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Components [][]float64    `json:"components"` // [outDim][vocabSize]
}

func (t *TextReducer) validate() error {
	if t.NgramSize <= 0 {
		return fmt.Errorf("text reducer: ngram size %d", t.NgramSize)
	}
	if len(t.IDF) != len(t.Vocabulary) {
		return fmt.Errorf("text reducer: %d idf weights for %d vocabulary terms",
			len(t.IDF), len(t.Vocabulary))
	}
	for i, row := range t.Components {
		if len(row) != len(t.Vocabulary) {
			return fmt.Errorf("text reducer: component row %d has width %d, want %d",
				i, len(row), len(t.Vocabulary))
		}
	}
	for term, idx := range t.Vocabulary {
		if idx < 0 || idx >= len(t.IDF) {
			return fmt.Errorf("text reducer: term %q has out-of-range index %d", term, idx)
		}
	}
	return nil
}

// OutDim returns the reduced dimensionality.
func (t *TextReducer) OutDim() int { return len(t.Components) }

// Transform maps normalized text to its reduced vector. Out-of-vocabulary
// n-grams are ignored; text producing an empty TF-IDF vector projects to
// all zeros.
func (t *TextReducer) Transform(text string) []float64 {
	tfidf := make([]float64, len(t.Vocabulary))
	runes := []rune(text)
	var norm float64
	for i := 0; i+t.NgramSize <= len(runes); i++ {
		idx, ok := t.Vocabulary[string(runes[i:i+t.NgramSize])]
		if !ok {
			continue
		}
		tfidf[idx] += t.IDF[idx]
	}
	for _, v := range tfidf {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range tfidf {
			tfidf[i] /= norm
		}
	}

	out := make([]float64, len(t.Components))
	for j, row := range t.Components {
		var sum float64
		for i, v := range tfidf {
			if v != 0 {
				sum += row[i] * v
			}
		}
		out[j] = sum
	}
	return out
}

// loadJSON reads and decodes one JSON artifact file into dst.
func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
