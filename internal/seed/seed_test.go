package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/logger"
	"noirstore/internal/models"
	"noirstore/internal/storage"
)

func TestDatasetIsConsistent(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, ds.Products)

	products := map[int64]models.Product{}
	for _, p := range ds.Products {
		assert.Positive(t, p.Price, p.Name)
		products[p.ID] = p
	}
	orders := map[int64]int{}
	spent := map[int64]float64{}
	for _, o := range ds.Orders {
		var subtotal float64
		for _, it := range o.Items {
			p, ok := products[it.ProductID]
			require.True(t, ok, "order %s references unknown product %d", o.ID, it.ProductID)
			assert.Equal(t, p.Name, it.Name)
			subtotal += it.Price * float64(it.Quantity)
		}
		assert.InDelta(t, subtotal, o.Subtotal, 0.001, o.ID)
		assert.InDelta(t, o.Subtotal+o.Shipping+o.Tax, o.Total, 0.001, o.ID)
		orders[o.Customer.ID]++
		spent[o.Customer.ID] += o.Total
	}
	for _, c := range ds.Customers {
		assert.Equal(t, orders[c.ID], c.Orders, c.Name)
		assert.InDelta(t, spent[c.ID], c.TotalSpent, 0.001, c.Name)
	}
	assert.LessOrEqual(t, len(ds.Activities), 100)
}

func TestApplySeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemoryBackend(), "test_", logger.Discard())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seeded, err := Apply(ctx, store, now, logger.Discard())
	require.NoError(t, err)
	assert.True(t, seeded)

	ds, err := Load()
	require.NoError(t, err)
	products, err := storage.List[models.Product](ctx, store, storage.NSProducts)
	require.NoError(t, err)
	assert.Len(t, products, len(ds.Products))

	activities, _, err := storage.GetOr(ctx, store, store.Key(storage.NSActivities), []models.Activity{})
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	assert.True(t, activities[0].Timestamp.Equal(now))

	require.NoError(t, store.Remove(ctx, store.Key(storage.NSProducts, "1")))
	seeded, err = Apply(ctx, store, now, logger.Discard())
	require.NoError(t, err)
	assert.False(t, seeded)

	products, err = storage.List[models.Product](ctx, store, storage.NSProducts)
	require.NoError(t, err)
	assert.Len(t, products, len(ds.Products)-1)
}

func TestApplyKeepsExistingRecords(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemoryBackend(), "test_", logger.Discard())
	_, err := store.Set(ctx, store.Key(storage.NSProducts, "1"), models.Product{ID: 1, Name: "Mine"}, storage.NoVersion)
	require.NoError(t, err)

	_, err = Apply(ctx, store, time.Now(), logger.Discard())
	require.NoError(t, err)

	var p models.Product
	_, err = store.Get(ctx, store.Key(storage.NSProducts, "1"), &p)
	require.NoError(t, err)
	assert.Equal(t, "Mine", p.Name)
}
