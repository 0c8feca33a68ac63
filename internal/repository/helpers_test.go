package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"noirstore/internal/logger"
	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const (
	testAdminEmail    = "admin@noir.com"
	testAdminPassword = "admin123"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []models.Activity
}

func (p *recordingPublisher) Publish(a models.Activity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, a)
}

func (p *recordingPublisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

type testEnv struct {
	*Set
	store *storage.Store
	clock *fakeClock
	pub   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, storage.NewMemoryBackend(), 0)
}

// newTestEnvWith builds an environment over backend with the given simulated latency.
func newTestEnvWith(t *testing.T, backend storage.Backend, latency time.Duration) *testEnv {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	store := storage.New(backend, "test_", logger.Discard())
	set, err := NewSet(store, Options{
		Latency:       latency,
		TaxRate:       0.08,
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		Now:           clock.Now,
	}, pub, logger.Discard())
	require.NoError(t, err)
	return &testEnv{Set: set, store: store, clock: clock, pub: pub}
}

func (e *testEnv) product(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	p, err := e.Products.Create(context.Background(), models.ProductInput{
		Name:        name,
		Price:       price,
		Category:    "OUTERWEAR",
		Description: name + " description",
		Sizes:       models.StringList{"S", "M", "L"},
		Stock:       stock,
	})
	require.NoError(t, err)
	return p
}

var errDiskFull = errors.New("disk full")

// flakyActivities fails writes to the activity feed while failing is set.
type flakyActivities struct {
	storage.Backend
	failing atomic.Bool
}

func (b *flakyActivities) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	if b.failing.Load() && strings.HasSuffix(key, storage.NSActivities) {
		return 0, errDiskFull
	}
	return b.Backend.Put(ctx, key, value, expected)
}
