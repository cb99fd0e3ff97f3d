// Package vectorindex reads and searches the per-shard flat vector index
// files produced by the offline training pipeline.
//
// File layout (little-endian): 4-byte magic "VIDX", uint32 version,
// uint32 dimension, uint32 row count, then count*dimension float32 values
// in row-major order. Row i of the index corresponds to row i of the
// shard's metadata table.
package vectorindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/fafadlian/similaritySearch-V3/internal/domain"
)

const (
	magic   = "VIDX"
	version = 1
)

// Index is a flat L2 index resident in memory. Read-only after Open.
type Index struct {
	dim  int
	rows int
	vecs []float32
}

// Hit is one nearest-neighbor result. Distance is the squared L2 distance,
// the flat-index convention; Confidence is 1/(1+distance).
type Hit struct {
	Row        int
	Rank       int
	Distance   float64
	Confidence float64
}

// Open loads an index file into memory.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	head := make([]byte, 4)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("index %s: bad magic %q", path, head)
	}
	var ver, dim, rows uint32
	for _, v := range []*uint32{&ver, &dim, &rows} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("read index header: %w", err)
		}
	}
	if ver != version {
		return nil, fmt.Errorf("index %s: unsupported version %d", path, ver)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index %s: zero dimension", path)
	}

	vecs := make([]float32, int(dim)*int(rows))
	if err := binary.Read(r, binary.LittleEndian, vecs); err != nil {
		return nil, fmt.Errorf("read index vectors: %w", err)
	}
	return &Index{dim: int(dim), rows: int(rows), vecs: vecs}, nil
}

// Write stores vectors as an index file. It is the serving-side writer used
// by tooling and tests; the production artifacts come from offline training.
func Write(path string, dim int, vecs []float32) error {
	if dim <= 0 || len(vecs)%dim != 0 {
		return fmt.Errorf("write index: %d values do not fit dimension %d", len(vecs), dim)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(magic); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}
	for _, v := range []uint32{version, uint32(dim), uint32(len(vecs) / dim)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, vecs); err != nil {
		return fmt.Errorf("write index vectors: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return f.Close()
}

// Dim returns the vector dimensionality of the index.
func (ix *Index) Dim() int { return ix.dim }

// Len returns the number of indexed rows.
func (ix *Index) Len() int { return ix.rows }

// Search returns the k nearest rows to the query by squared L2 distance,
// ascending. Fewer than k hits are returned when the index is smaller.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query width %d, index width %d",
			domain.ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 || ix.rows == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, ix.rows)
	for row := 0; row < ix.rows; row++ {
		base := row * ix.dim
		var d float64
		for i, q := range query {
			diff := float64(q) - float64(ix.vecs[base+i])
			d += diff * diff
		}
		hits = append(hits, Hit{Row: row, Distance: d})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if len(hits) > k {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Rank = i
		hits[i].Confidence = confidence(hits[i].Distance)
	}
	return hits, nil
}

func confidence(distance float64) float64 {
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0
	}
	return 1 / (1 + distance)
}
