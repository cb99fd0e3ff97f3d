package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for well-known API failure codes.
// Use errors.Is() to check.
var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrShardUnavailable = errors.New("shard unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("similarity search api: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Is maps well-known API codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidDateRange:
		return e.Code == "invalid_date_range"
	case ErrShardUnavailable:
		return e.Code == "shard_unavailable"
	case ErrUnauthorized:
		return e.StatusCode == 401
	}
	return false
}
