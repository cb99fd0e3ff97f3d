package artifact

import (
	"math"
	"testing"
)

func TestScalerTransform(t *testing.T) {
	s := &Scaler{
		Features: []string{"a", "b", "c"},
		Mean:     []float64{10, 0, 5},
		Scale:    []float64{2, 1, 0},
	}
	if err := s.validate(); err != nil {
		t.Fatal(err)
	}

	out, err := s.Transform([]float64{14, -3, 99})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 2 {
		t.Errorf("out[0] = %v, want 2", out[0])
	}
	if out[1] != -3 {
		t.Errorf("out[1] = %v, want -3", out[1])
	}
	// Zero scale means a constant training column; it contributes nothing.
	if out[2] != 0 {
		t.Errorf("out[2] = %v, want 0", out[2])
	}
}

func TestScalerTransform_WidthMismatch(t *testing.T) {
	s := testScaler()
	if _, err := s.Transform([]float64{1, 2}); err == nil {
		t.Fatal("expected error for wrong width")
	}
}

func TestScalerValidate(t *testing.T) {
	s := &Scaler{Features: []string{"a", "b"}, Mean: []float64{0}, Scale: []float64{1, 1}}
	if err := s.validate(); err == nil {
		t.Fatal("expected error for inconsistent lengths")
	}
}

func TestEncoderTransform(t *testing.T) {
	e := testEncoder()
	if e.Width() != 4 {
		t.Fatalf("Width() = %d, want 4", e.Width())
	}

	tests := []struct {
		name   string
		values []string
		want   []float64
	}{
		{name: "both known", values: []string{"m", "gb"}, want: []float64{1, 0, 0, 1}},
		{name: "case insensitive", values: []string{"F", "US"}, want: []float64{0, 1, 1, 0}},
		{name: "unknown encodes to zeros", values: []string{"x", "fr"}, want: []float64{0, 0, 0, 0}},
		{name: "whitespace trimmed", values: []string{" m ", "us"}, want: []float64{1, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Transform(tt.values)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != len(tt.want) {
				t.Fatalf("width = %d, want %d", len(out), len(tt.want))
			}
			for i := range out {
				if out[i] != tt.want[i] {
					t.Errorf("out = %v, want %v", out, tt.want)
					break
				}
			}
		})
	}
}

func TestEncoderTransform_ColumnCountMismatch(t *testing.T) {
	e := testEncoder()
	if _, err := e.Transform([]string{"m"}); err == nil {
		t.Fatal("expected error for wrong column count")
	}
}

func TestTextReducerTransform(t *testing.T) {
	r := testReducer()
	if err := r.validate(); err != nil {
		t.Fatal(err)
	}
	if r.OutDim() != 2 {
		t.Fatalf("OutDim() = %d, want 2", r.OutDim())
	}

	// "johnsmith" hits joh, ohn, smi, mit; tf-idf (1, 1, 1.5, 1.5) has norm
	// sqrt(6.5); components pick terms 0 and 2.
	out := r.Transform("johnsmith")
	norm := math.Sqrt(6.5)
	if math.Abs(out[0]-1/norm) > 1e-9 {
		t.Errorf("out[0] = %v, want %v", out[0], 1/norm)
	}
	if math.Abs(out[1]-1.5/norm) > 1e-9 {
		t.Errorf("out[1] = %v, want %v", out[1], 1.5/norm)
	}
}

func TestTextReducerTransform_OutOfVocabulary(t *testing.T) {
	r := testReducer()
	out := r.Transform("zzzzzz")
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0 for fully out-of-vocabulary text", i, v)
		}
	}
}

func TestTextReducerTransform_TooShort(t *testing.T) {
	r := testReducer()
	out := r.Transform("ab")
	if len(out) != r.OutDim() {
		t.Fatalf("width = %d, want %d", len(out), r.OutDim())
	}
	for _, v := range out {
		if v != 0 {
			t.Errorf("short text should project to zeros, got %v", out)
			break
		}
	}
}

func TestTextReducerValidate(t *testing.T) {
	tests := []struct {
		name string
		r    TextReducer
	}{
		{name: "zero ngram", r: TextReducer{NgramSize: 0}},
		{name: "idf length", r: TextReducer{
			NgramSize: 3, Vocabulary: map[string]int{"abc": 0}, IDF: []float64{1, 2},
		}},
		{name: "component width", r: TextReducer{
			NgramSize: 3, Vocabulary: map[string]int{"abc": 0}, IDF: []float64{1},
			Components: [][]float64{{1, 2}},
		}},
		{name: "vocab index out of range", r: TextReducer{
			NgramSize: 3, Vocabulary: map[string]int{"abc": 5}, IDF: []float64{1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
