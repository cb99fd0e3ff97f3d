package similarity

import (
	"math"
	"testing"
	"time"
)

var refNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestAge(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		want int
		ok   bool
	}{
		{name: "birthday passed", dob: "1980-01-01", want: 44, ok: true},
		{name: "birthday pending", dob: "1980-12-31", want: 43, ok: true},
		{name: "birthday today", dob: "1980-06-15", want: 44, ok: true},
		{name: "newborn", dob: "2024-03-01", want: 0, ok: true},
		{name: "future date clamps", dob: "2030-01-01", want: 0, ok: true},
		{name: "empty", dob: "", ok: false},
		{name: "unparseable", dob: "01/01/1980", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Age(tt.dob, refNow)
			if ok != tt.ok {
				t.Fatalf("Age(%q) ok = %v, want %v", tt.dob, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Age(%q) = %d, want %d", tt.dob, got, tt.want)
			}
		})
	}
}

func TestAgeSimilarity(t *testing.T) {
	tests := []struct {
		name       string
		dob1, dob2 string
		want       float64
		noSignal   bool
		tol        float64
	}{
		{name: "same age", dob1: "1980-01-01", dob2: "1980-03-03", want: 100},
		{name: "forty vs twenty", dob1: "1984-01-01", dob2: "2004-01-01",
			want: 100 - 100*math.Log(2), tol: 1e-9},
		{name: "zero age side", dob1: "2024-03-01", dob2: "1980-01-01", want: 0},
		{name: "huge gap floors at zero", dob1: "1930-01-01", dob2: "2023-01-01", want: 0},
		{name: "left missing", dob1: "", dob2: "1980-01-01", noSignal: true},
		{name: "right unparseable", dob1: "1980-01-01", dob2: "bogus", noSignal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeSimilarity(tt.dob1, tt.dob2, refNow)
			if tt.noSignal {
				if !math.IsNaN(got) {
					t.Errorf("AgeSimilarity = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("AgeSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAgeSimilarity_Symmetric(t *testing.T) {
	if AgeSimilarity("1970-05-05", "1990-06-06", refNow) != AgeSimilarity("1990-06-06", "1970-05-05", refNow) {
		t.Error("AgeSimilarity not symmetric")
	}
}
