package storage

import (
	"context"
	"errors"
)

// Version sentinels for Put and Delete.
const (
	// NoVersion requires the key to be absent (create only).
	NoVersion int64 = 0
	// AnyVersion skips the version check.
	AnyVersion int64 = -1
)

var (
	ErrNotFound = errors.New("storage: key not found")
	ErrConflict = errors.New("storage: version conflict")
	ErrCorrupt  = errors.New("storage: corrupt value")
)

// Record is a raw stored value and its version. Versions start at 1.
type Record struct {
	Key     string
	Value   []byte
	Version int64
}

// Backend is a versioned key-value medium. Put and Delete are compare-and-swap
// on the expected version; a positive expected version on a missing key is
// ErrNotFound, any other mismatch is ErrConflict.
type Backend interface {
	Get(ctx context.Context, key string) (Record, error)
	Put(ctx context.Context, key string, value []byte, expected int64) (int64, error)
	Delete(ctx context.Context, key string, expected int64) error
	List(ctx context.Context, prefix string) ([]Record, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func versionMatches(current int64, exists bool, expected int64) bool {
	switch expected {
	case AnyVersion:
		return true
	case NoVersion:
		return !exists
	default:
		return exists && current == expected
	}
}
