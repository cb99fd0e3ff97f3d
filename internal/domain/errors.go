package domain

import "errors"

var (
	// ErrNoShards signals that no shard window overlaps the requested date range.
	ErrNoShards = errors.New("no shards matched the requested date range")
	// ErrBundleIncomplete signals a shard bundle with missing or inconsistent artifacts.
	ErrBundleIncomplete = errors.New("shard bundle incomplete")
	// ErrDimensionMismatch signals an embedding width that differs from the index width.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidDateRange signals an unparseable or inverted arrival date range.
	ErrInvalidDateRange = errors.New("invalid date range")
)
