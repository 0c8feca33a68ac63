package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Namespaces of the persisted key contract.
const (
	NSProducts       = "products"
	NSOrders         = "orders"
	NSCustomers      = "customers"
	NSSettings       = "settings"
	NSSiteContent    = "site_content"
	NSAuthToken      = "auth_token"
	NSAuthUser       = "auth_user"
	NSAuthCredential = "auth_credential"
	NSCart           = "cart"
	NSActivities     = "activities"
	NSSeeded         = "seeded"
)

// Store scopes a Backend under a key prefix and (de)serializes values as JSON.
// Every failure is logged and returned to the caller.
type Store struct {
	backend Backend
	prefix  string
	log     *logrus.Entry
}

func New(backend Backend, prefix string, log *logrus.Entry) *Store {
	return &Store{backend: backend, prefix: prefix, log: log}
}

// Key builds "<prefix><namespace>" or "<prefix><namespace>:<id>".
func (s *Store) Key(namespace string, id ...string) string {
	if len(id) == 0 {
		return s.prefix + namespace
	}
	return s.prefix + namespace + ":" + strings.Join(id, ":")
}

// Get decodes the value at key into dst and returns its version.
func (s *Store) Get(ctx context.Context, key string, dst any) (int64, error) {
	rec, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fail("get", key, err)
		}
		return 0, err
	}
	if err := json.Unmarshal(rec.Value, dst); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
		s.fail("get", key, err)
		return 0, err
	}
	return rec.Version, nil
}

// Set encodes value and writes it with the expected version.
func (s *Store) Set(ctx context.Context, key string, value any, expected int64) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("encode %s: %w", key, err)
		s.fail("set", key, err)
		return 0, err
	}
	ver, err := s.backend.Put(ctx, key, raw, expected)
	if err != nil {
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
			s.fail("set", key, err)
		}
		return 0, err
	}
	return ver, nil
}

// Delete removes key if its version matches expected.
func (s *Store) Delete(ctx context.Context, key string, expected int64) error {
	err := s.backend.Delete(ctx, key, expected)
	if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
		s.fail("delete", key, err)
	}
	return err
}

// Remove deletes key unconditionally. A missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.Delete(ctx, key, AnyVersion)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Clear removes every key under the store prefix.
func (s *Store) Clear(ctx context.Context) error {
	recs, err := s.backend.List(ctx, s.prefix)
	if err != nil {
		s.fail("clear", s.prefix, err)
		return err
	}
	for _, rec := range recs {
		if err := s.Remove(ctx, rec.Key); err != nil {
			return err
		}
	}
	s.log.WithField("keys", len(recs)).Info("storage cleared")
	return nil
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) list(ctx context.Context, namespace string) ([]Record, error) {
	prefix := s.Key(namespace) + ":"
	recs, err := s.backend.List(ctx, prefix)
	if err != nil {
		s.fail("list", prefix, err)
		return nil, err
	}
	return recs, nil
}

func (s *Store) fail(op, key string, err error) {
	s.log.WithFields(logrus.Fields{"op": op, "key": key}).WithError(err).Error("storage operation failed")
}

// Versioned pairs a decoded value with its stored version.
type Versioned[T any] struct {
	Value   T
	Version int64
}

// GetOr returns def with version NoVersion when key is absent. Other errors propagate.
func GetOr[T any](ctx context.Context, s *Store, key string, def T) (T, int64, error) {
	var out T
	ver, err := s.Get(ctx, key, &out)
	if errors.Is(err, ErrNotFound) {
		return def, NoVersion, nil
	}
	if err != nil {
		return def, 0, err
	}
	return out, ver, nil
}

// List decodes every record in namespace, ordered by key.
func List[T any](ctx context.Context, s *Store, namespace string) ([]Versioned[T], error) {
	recs, err := s.list(ctx, namespace)
	if err != nil {
		return nil, err
	}
	out := make([]Versioned[T], 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Value, &v); err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrCorrupt, rec.Key, err)
			s.fail("list", rec.Key, err)
			return nil, err
		}
		out = append(out, Versioned[T]{Value: v, Version: rec.Version})
	}
	return out, nil
}
