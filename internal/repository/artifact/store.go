package artifact

import (
	"context"
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fafadlian/similaritySearch-V3/internal/metrics"
)

// DefaultCacheSize is the number of shard bundles kept resident when the
// configuration does not say otherwise. Bundles are large (index vectors
// plus the full metadata table), so the bound is deliberately small.
const DefaultCacheSize = 2

// Store loads shard bundles from the artifact directory and memoizes up to
// cacheSize of them. Loads of the same label are single-flighted; loads of
// different labels proceed concurrently.
type Store struct {
	dir    string
	cache  *lru.Cache[string, *Bundle]
	group  singleflight.Group
	logger *zap.Logger
}

// NewStore creates a shard artifact store rooted at dir.
func NewStore(dir string, cacheSize int, logger *zap.Logger) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	s := &Store{dir: dir, logger: logger}
	cache, err := lru.NewWithEvict(cacheSize, func(label string, _ *Bundle) {
		metrics.ShardCacheTotal.WithLabelValues("eviction").Inc()
		logger.Info("evicted shard bundle", zap.String("shard", label))
	})
	if err != nil {
		return nil, fmt.Errorf("create shard cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Load returns the bundle for a shard label, from cache when resident.
// Concurrent calls for the same label share one disk load.
func (s *Store) Load(ctx context.Context, label string) (*Bundle, error) {
	if b, ok := s.cache.Get(label); ok {
		metrics.ShardCacheTotal.WithLabelValues("hit").Inc()
		return b, nil
	}
	metrics.ShardCacheTotal.WithLabelValues("miss").Inc()

	v, err, shared := s.group.Do(label, func() (any, error) {
		// Re-check: another flight may have populated the cache while we
		// were queued on the group.
		if b, ok := s.cache.Get(label); ok {
			return b, nil
		}
		start := time.Now()
		b, err := loadBundle(s.dir, label)
		if err != nil {
			metrics.ShardLoadsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.ShardLoadsTotal.WithLabelValues("success").Inc()
		metrics.ShardLoadDuration.Observe(time.Since(start).Seconds())
		s.logger.Info("loaded shard bundle",
			zap.String("shard", label),
			zap.Int("rows", len(b.Meta)),
			zap.Int("dim", b.Dim()),
			zap.Duration("elapsed", time.Since(start)),
		)
		s.cache.Add(label, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shard load shared with concurrent caller", zap.String("shard", label))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// Resident returns the labels currently held in the cache, oldest first.
func (s *Store) Resident() []string { return s.cache.Keys() }

// Ping verifies the artifact directory is readable.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("artifact dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("artifact dir %s is not a directory", s.dir)
	}
	return nil
}
