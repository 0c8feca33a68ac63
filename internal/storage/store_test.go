package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/logger"
)

type sample struct {
	Name  string   `json:"name"`
	Sizes []string `json:"sizes"`
}

func newTestStore() (*Store, *MemoryBackend) {
	b := NewMemoryBackend()
	return New(b, "test_", logger.Discard()), b
}

func TestStoreKey(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, "test_settings", s.Key(NSSettings))
	assert.Equal(t, "test_products:42", s.Key(NSProducts, "42"))
}

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	ver, err := s.Set(ctx, s.Key(NSProducts, "1"), sample{Name: "Coat", Sizes: []string{"S", "M"}}, NoVersion)
	require.NoError(t, err)

	var got sample
	gotVer, err := s.Get(ctx, s.Key(NSProducts, "1"), &got)
	require.NoError(t, err)
	assert.Equal(t, ver, gotVer)
	assert.Equal(t, "Coat", got.Name)
	assert.Equal(t, []string{"S", "M"}, got.Sizes)
}

func TestGetOrFallsBackOnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s, b := newTestStore()

	def := sample{Name: "default"}
	got, ver, err := GetOr(ctx, s, s.Key(NSSettings), def)
	require.NoError(t, err)
	assert.Equal(t, def, got)
	assert.Equal(t, NoVersion, ver)

	_, err = b.Put(ctx, s.Key(NSSettings), []byte("{not json"), NoVersion)
	require.NoError(t, err)

	_, _, err = GetOr(ctx, s, s.Key(NSSettings), def)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type failingBackend struct {
	*MemoryBackend
}

func (failingBackend) Put(context.Context, string, []byte, int64) (int64, error) {
	return 0, errors.New("quota exceeded")
}

func TestStoreSetPropagatesWriteFailure(t *testing.T) {
	s := New(failingBackend{NewMemoryBackend()}, "test_", logger.Discard())

	_, err := s.Set(context.Background(), s.Key(NSCart, "1"), []string{"x"}, AnyVersion)
	assert.EqualError(t, err, "quota exceeded")
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.Set(ctx, s.Key(NSCart, "1"), []string{"x"}, NoVersion)
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, s.Key(NSCart, "1")))
	require.NoError(t, s.Remove(ctx, s.Key(NSCart, "1")))
}

func TestStoreClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := New(b, "test_", logger.Discard())

	_, err := s.Set(ctx, s.Key(NSProducts, "1"), sample{}, NoVersion)
	require.NoError(t, err)
	_, err = s.Set(ctx, s.Key(NSSettings), sample{}, NoVersion)
	require.NoError(t, err)
	_, err = b.Put(ctx, "other_products:1", []byte("{}"), NoVersion)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	recs, err := b.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "other_products:1", recs[0].Key)
}

func TestListDecodesNamespace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	for _, id := range []string{"1", "2"} {
		_, err := s.Set(ctx, s.Key(NSProducts, id), sample{Name: id}, NoVersion)
		require.NoError(t, err)
	}
	_, err := s.Set(ctx, s.Key(NSOrders, "9"), sample{Name: "order"}, NoVersion)
	require.NoError(t, err)

	items, err := List[sample](ctx, s, NSProducts)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].Value.Name)
	assert.Equal(t, int64(1), items[0].Version)
}
