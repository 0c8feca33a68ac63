package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"noirstore/internal/storage"
)

// maxWriteAttempts bounds the read-modify-write retry loop on version conflicts.
const maxWriteAttempts = 5

// Options tunes repository behaviour.
type Options struct {
	Latency           time.Duration
	LowStockThreshold int
	ActivityLimit     int
	TaxRate           float64
	AdminEmail        string
	AdminPassword     string
	JWTSecret         string
	SessionTTL        time.Duration
	Now               func() time.Time
}

type base struct {
	store   *storage.Store
	latency time.Duration
	now     func() time.Time
	ids     *idGenerator
	log     *logrus.Entry
}

// wait simulates network latency and returns early when ctx is done.
func (b *base) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// stamp returns the current time, pushed past prev when the clock has not moved.
func (b *base) stamp(prev time.Time) time.Time {
	now := b.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// load reads one record, mapping absence to a 404.
func load[T any](ctx context.Context, s *storage.Store, key, what string) (T, int64, error) {
	var v T
	ver, err := s.Get(ctx, key, &v)
	if errors.Is(err, storage.ErrNotFound) {
		return v, 0, NotFound(what)
	}
	return v, ver, err
}

// insert writes a new record under a freshly generated key, retrying on key collisions.
func insert[T any](ctx context.Context, s *storage.Store, next func() (string, T)) (T, int64, error) {
	var zero T
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		key, v := next()
		ver, err := s.Set(ctx, key, v, storage.NoVersion)
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return zero, 0, err
		}
		return v, ver, nil
	}
	return zero, 0, fmt.Errorf("insert: %w", storage.ErrConflict)
}

// mutate runs a read-modify-write on key. A conflicting write is retried with a
// fresh read unless the caller pinned ifVersion, in which case it is a 409.
// Returning an error from apply aborts without writing.
func mutate[T any](ctx context.Context, s *storage.Store, key, what string, ifVersion int64, apply func(*T) error) (T, int64, error) {
	var zero T
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		v, ver, err := load[T](ctx, s, key, what)
		if err != nil {
			return zero, 0, err
		}
		if ifVersion > 0 && ver != ifVersion {
			return zero, 0, Conflict(what + " was modified by another request")
		}
		if err := apply(&v); err != nil {
			return zero, 0, err
		}
		next, err := s.Set(ctx, key, v, ver)
		switch {
		case err == nil:
			return v, next, nil
		case errors.Is(err, storage.ErrNotFound):
			return zero, 0, NotFound(what)
		case errors.Is(err, storage.ErrConflict):
			if ifVersion > 0 {
				return zero, 0, Conflict(what + " was modified by another request")
			}
		default:
			return zero, 0, err
		}
	}
	return zero, 0, Conflict(what + " is being modified concurrently, try again")
}

// mutateOr is mutate for singleton keys that fall back to def when absent.
func mutateOr[T any](ctx context.Context, s *storage.Store, key string, def T, apply func(*T) error) (T, int64, error) {
	var zero T
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		v, ver, err := storage.GetOr(ctx, s, key, def)
		if err != nil {
			return zero, 0, err
		}
		if err := apply(&v); err != nil {
			return zero, 0, err
		}
		next, err := s.Set(ctx, key, v, ver)
		if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return zero, 0, err
		}
		return v, next, nil
	}
	return zero, 0, fmt.Errorf("%s: %w", key, storage.ErrConflict)
}

// remove deletes the record at key and returns what was deleted.
func remove[T any](ctx context.Context, s *storage.Store, key, what string) (T, error) {
	var zero T
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		v, ver, err := load[T](ctx, s, key, what)
		if err != nil {
			return zero, err
		}
		err = s.Delete(ctx, key, ver)
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, storage.ErrNotFound):
			return zero, NotFound(what)
		case !errors.Is(err, storage.ErrConflict):
			return zero, err
		}
	}
	return zero, Conflict(what + " is being modified concurrently, try again")
}
