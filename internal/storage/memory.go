package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps records in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]Record
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]Record)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.data[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, exists := m.data[key]
	if !versionMatches(cur.Version, exists, expected) {
		if expected > 0 && !exists {
			return 0, ErrNotFound
		}
		return 0, ErrConflict
	}

	next := cur.Version + 1
	buf := make([]byte, len(value))
	copy(buf, value)
	m.data[key] = Record{Key: key, Value: buf, Version: next}
	return next, nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string, expected int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, exists := m.data[key]
	if !exists {
		return ErrNotFound
	}
	if expected != AnyVersion && cur.Version != expected {
		return ErrConflict
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) List(ctx context.Context, prefix string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0)
	for key, rec := range m.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryBackend) Close(context.Context) error {
	return nil
}

func cloneRecord(rec Record) Record {
	buf := make([]byte, len(rec.Value))
	copy(buf, rec.Value)
	rec.Value = buf
	return rec
}
