// Package artifact owns the per-shard serving artifacts: the fitted
// transformers, the flat vector index, and the metadata table. The Store
// keeps a bounded number of bundles resident with LRU eviction and
// single-flight loading.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/fafadlian/similaritySearch-V3/internal/domain"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/vectorindex"
)

// Bundle is the loaded artifact set of one shard. Read-only at serving
// time; a cache hit returns the identical instance.
type Bundle struct {
	Label       string
	Scaler      *Scaler
	Encoder     *Encoder
	NameReducer *TextReducer
	AddrReducer *TextReducer
	Index       *vectorindex.Index
	Meta        []passenger.Record
}

// Paths of the artifact files for one shard label inside the artifact dir.
func bundlePaths(dir, label string) map[string]string {
	return map[string]string{
		"scaler":     filepath.Join(dir, fmt.Sprintf("scaler_%s.json", label)),
		"encoder":    filepath.Join(dir, fmt.Sprintf("encoder_%s.json", label)),
		"tfidf_name": filepath.Join(dir, fmt.Sprintf("tfidf_name_%s.json", label)),
		"tfidf_addr": filepath.Join(dir, fmt.Sprintf("tfidf_addr_%s.json", label)),
		"index":      filepath.Join(dir, fmt.Sprintf("index_%s.vec", label)),
		"metadata":   filepath.Join(dir, fmt.Sprintf("metadata_%s.parquet", label)),
	}
}

// loadBundle reads and validates every artifact of a shard. Any missing
// file or row-count inconsistency makes the whole shard unusable.
func loadBundle(dir, label string) (*Bundle, error) {
	paths := bundlePaths(dir, label)
	for name, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: shard %s missing %s artifact (%s)",
				domain.ErrBundleIncomplete, label, name, path)
		}
	}

	b := &Bundle{
		Label:       label,
		Scaler:      &Scaler{},
		Encoder:     &Encoder{},
		NameReducer: &TextReducer{},
		AddrReducer: &TextReducer{},
	}
	if err := loadJSON(paths["scaler"], b.Scaler); err != nil {
		return nil, fmt.Errorf("shard %s: load scaler: %w", label, err)
	}
	if err := b.Scaler.validate(); err != nil {
		return nil, fmt.Errorf("%w: shard %s: %v", domain.ErrBundleIncomplete, label, err)
	}
	if err := loadJSON(paths["encoder"], b.Encoder); err != nil {
		return nil, fmt.Errorf("shard %s: load encoder: %w", label, err)
	}
	if err := loadJSON(paths["tfidf_name"], b.NameReducer); err != nil {
		return nil, fmt.Errorf("shard %s: load name reducer: %w", label, err)
	}
	if err := b.NameReducer.validate(); err != nil {
		return nil, fmt.Errorf("%w: shard %s name reducer: %v", domain.ErrBundleIncomplete, label, err)
	}
	if err := loadJSON(paths["tfidf_addr"], b.AddrReducer); err != nil {
		return nil, fmt.Errorf("shard %s: load address reducer: %w", label, err)
	}
	if err := b.AddrReducer.validate(); err != nil {
		return nil, fmt.Errorf("%w: shard %s address reducer: %v", domain.ErrBundleIncomplete, label, err)
	}

	index, err := vectorindex.Open(paths["index"])
	if err != nil {
		return nil, fmt.Errorf("shard %s: %w", label, err)
	}
	b.Index = index

	meta, err := parquet.ReadFile[passenger.Record](paths["metadata"])
	if err != nil {
		return nil, fmt.Errorf("shard %s: read metadata: %w", label, err)
	}
	b.Meta = meta

	if index.Len() != len(meta) {
		return nil, fmt.Errorf("%w: shard %s: index has %d rows, metadata has %d",
			domain.ErrBundleIncomplete, label, index.Len(), len(meta))
	}
	return b, nil
}

// Dim returns the embedding width the bundle's index expects.
func (b *Bundle) Dim() int { return b.Index.Dim() }
