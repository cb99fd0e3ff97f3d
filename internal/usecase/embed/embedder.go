// Package embed turns passenger records and query profiles into the
// fixed-length vectors expected by a shard's vector index, using that
// shard's fitted transformers.
package embed

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/fafadlian/similaritySearch-V3/internal/domain"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/artifact"
)

const (
	// missingNumeric replaces absent numeric values before scaling.
	missingNumeric = -9999
	// clipLimit bounds numeric inputs so a corrupt row cannot dominate.
	clipLimit = 1e5
	// emptyTextToken stands in for text that normalizes to nothing, so the
	// fitted vectorizers never see an empty document.
	emptyTextToken = "emptydoc"
)

// Weights are the fixed multipliers balancing block influence in the
// serving embedding. Zero values mean 1.0.
type Weights struct {
	Numeric     float64
	Categorical map[string]float64 // by encoder column name
	Name        float64
	Address     float64
}

func (w Weights) numeric() float64 { return orOne(w.Numeric) }
func (w Weights) name() float64    { return orOne(w.Name) }
func (w Weights) address() float64 { return orOne(w.Address) }

func (w Weights) categorical(column string) float64 {
	if w.Categorical == nil {
		return 1
	}
	return orOne(w.Categorical[column])
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Input is the field view shared by stored records and query profiles.
// Coordinates are NaN when unknown.
type Input struct {
	Firstname   string
	Surname     string
	Address     string
	Sex         string
	Nationality string
	DOB         string
	DepLat      float64
	DepLon      float64
	ArrLat      float64
	ArrLon      float64
}

// FromRecord builds embedding input from an archived record.
func FromRecord(r passenger.Record) Input {
	return Input{
		Firstname:   r.Firstname,
		Surname:     r.Surname,
		Address:     r.Address,
		Sex:         r.Sex,
		Nationality: r.Nationality,
		DOB:         r.DOB,
		DepLat:      r.DepLat,
		DepLon:      r.DepLon,
		ArrLat:      r.ArrLat,
		ArrLon:      r.ArrLon,
	}
}

// FromQuery builds embedding input from an enriched query profile.
func FromQuery(q passenger.Query) Input {
	return Input{
		Firstname:   q.Firstname,
		Surname:     q.Surname,
		Address:     q.Address,
		Sex:         q.Sex,
		Nationality: q.Nationality,
		DOB:         q.DOB,
		DepLat:      q.OriginLat,
		DepLon:      q.OriginLon,
		ArrLat:      q.DestLat,
		ArrLon:      q.DestLon,
	}
}

// Embedder maps inputs to embedding vectors. Safe for concurrent use; the
// fitted transformers come from the shard bundle per call.
type Embedder struct {
	weights Weights
	nowFn   func() time.Time
}

// New creates an embedder with the given block weights.
func New(weights Weights) *Embedder {
	return &Embedder{weights: weights, nowFn: time.Now}
}

// WithNow overrides the reference time used for the relative-age feature.
func (e *Embedder) WithNow(nowFn func() time.Time) *Embedder {
	e.nowFn = nowFn
	return e
}

// Embed produces the serving vector for one input in the bundle's
// embedding space: weighted numeric, categorical, and text blocks in fixed
// order, with non-finite values zeroed. The output width must equal the
// bundle's index width or the shard configuration is broken.
func (e *Embedder) Embed(b *artifact.Bundle, in Input) ([]float32, error) {
	numeric, categorical, name, addr, err := e.blocks(b, in)
	if err != nil {
		return nil, err
	}

	scale(numeric, e.weights.numeric())
	offset := 0
	for _, col := range b.Encoder.Columns {
		w := e.weights.categorical(col.Name)
		scale(categorical[offset:offset+len(col.Categories)], w)
		offset += len(col.Categories)
	}
	scale(name, e.weights.name())
	scale(addr, e.weights.address())

	vec := concat(numeric, categorical, name, addr)
	if len(vec) != b.Dim() {
		return nil, fmt.Errorf("%w: shard %s: embedder produced width %d, index expects %d",
			domain.ErrDimensionMismatch, b.Label, len(vec), b.Dim())
	}
	return vec, nil
}

// EmbedNormalized produces the classifier representation: the same blocks,
// unweighted, each L2-normalized before concatenation.
func (e *Embedder) EmbedNormalized(b *artifact.Bundle, in Input) ([]float32, error) {
	numeric, categorical, name, addr, err := e.blocks(b, in)
	if err != nil {
		return nil, err
	}
	for _, block := range [][]float64{numeric, categorical, name, addr} {
		l2Normalize(block)
	}
	return concat(numeric, categorical, name, addr), nil
}

func (e *Embedder) blocks(b *artifact.Bundle, in Input) (numeric, categorical, name, addr []float64, err error) {
	raw := make([]float64, 0, b.Scaler.Width())
	for _, feature := range b.Scaler.Features {
		v, ferr := e.numericFeature(feature, in)
		if ferr != nil {
			return nil, nil, nil, nil, ferr
		}
		raw = append(raw, clipNumeric(v))
	}
	numeric, err = b.Scaler.Transform(raw)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("shard %s: %w", b.Label, err)
	}

	catValues := make([]string, 0, len(b.Encoder.Columns))
	for _, col := range b.Encoder.Columns {
		v, ferr := categoricalFeature(col.Name, in)
		if ferr != nil {
			return nil, nil, nil, nil, ferr
		}
		catValues = append(catValues, v)
	}
	categorical, err = b.Encoder.Transform(catValues)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("shard %s: %w", b.Label, err)
	}

	name = b.NameReducer.Transform(textOrToken(NormalizeText(in.Firstname + in.Surname)))
	addr = b.AddrReducer.Transform(textOrToken(NormalizeText(in.Address)))
	return numeric, categorical, name, addr, nil
}

func (e *Embedder) numericFeature(feature string, in Input) (float64, error) {
	switch feature {
	case "relative_age":
		return relativeAge(in.DOB, e.nowFn()), nil
	case "dep_lat":
		return in.DepLat, nil
	case "dep_lon":
		return in.DepLon, nil
	case "arr_lat":
		return in.ArrLat, nil
	case "arr_lon":
		return in.ArrLon, nil
	default:
		return 0, fmt.Errorf("%w: unknown numeric feature %q in scaler",
			domain.ErrBundleIncomplete, feature)
	}
}

func categoricalFeature(column string, in Input) (string, error) {
	var v string
	switch column {
	case "gender":
		v = in.Sex
	case "nationality":
		v = in.Nationality
	default:
		return "", fmt.Errorf("%w: unknown categorical column %q in encoder",
			domain.ErrBundleIncomplete, column)
	}
	if strings.TrimSpace(v) == "" {
		return "unknown", nil
	}
	return v, nil
}

// relativeAge is fractional years since the date of birth, or NaN (which
// clipNumeric maps to the missing sentinel) when the DOB is unusable.
func relativeAge(dob string, now time.Time) float64 {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return math.NaN()
	}
	return now.Sub(born).Hours() / 24 / 365.25
}

// NormalizeText lowercases text and strips everything but letters and digits.
func NormalizeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func textOrToken(s string) string {
	if s == "" {
		return emptyTextToken
	}
	return s
}

func clipNumeric(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missingNumeric
	}
	return math.Max(-clipLimit, math.Min(clipLimit, v))
}

func scale(vals []float64, w float64) {
	if w == 1 {
		return
	}
	for i := range vals {
		vals[i] *= w
	}
}

func l2Normalize(vals []float64) {
	var norm float64
	for _, v := range vals {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vals {
		vals[i] /= norm
	}
}

func concat(blocks ...[]float64) []float32 {
	var n int
	for _, b := range blocks {
		n += len(b)
	}
	out := make([]float32, 0, n)
	for _, b := range blocks {
		for _, v := range b {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			out = append(out, float32(v))
		}
	}
	return out
}
