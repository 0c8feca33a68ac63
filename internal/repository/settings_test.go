package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/models"
)

func TestSettingsDefaultsWhenAbsent(t *testing.T) {
	env := newTestEnv(t)
	s, err := env.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().Store.Name, s.Store.Name)
	assert.Zero(t, s.Version)
}

func TestSettingsUpdateMergesSections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	name := "NOIR Paris"
	express := 40.0
	marketing := true
	updated, err := env.Settings.Update(ctx, models.SettingsPatch{
		Store:         &models.StoreSettingsPatch{Name: &name},
		Shipping:      &models.ShippingSettingsPatch{ExpressShipping: &express},
		Notifications: &models.NotificationSettingsPatch{Marketing: &marketing},
	})
	require.NoError(t, err)

	defaults := models.DefaultSettings()
	assert.Equal(t, "NOIR Paris", updated.Store.Name)
	assert.Equal(t, defaults.Store.Email, updated.Store.Email)
	assert.Equal(t, 40.0, updated.Shipping.ExpressShipping)
	assert.Equal(t, defaults.Shipping.StandardShipping, updated.Shipping.StandardShipping)
	assert.True(t, updated.Notifications.Marketing)
	assert.Equal(t, defaults.Notifications.Orders, updated.Notifications.Orders)

	got, err := env.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NOIR Paris", got.Store.Name)

	recent, err := env.Activities.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Store settings updated", recent[0].Message)
}
