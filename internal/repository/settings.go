package repository

import (
	"context"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

type SettingsRepository struct {
	*base
	activities *ActivityLogger
}

func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	if err := r.wait(ctx); err != nil {
		return models.Settings{}, err
	}
	return r.get(ctx)
}

func (r *SettingsRepository) get(ctx context.Context) (models.Settings, error) {
	s, ver, err := storage.GetOr(ctx, r.store, r.store.Key(storage.NSSettings), models.DefaultSettings())
	s.Version = ver
	return s, err
}

func (r *SettingsRepository) Update(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	if err := r.wait(ctx); err != nil {
		return models.Settings{}, err
	}
	s, ver, err := mutateOr(ctx, r.store, r.store.Key(storage.NSSettings), models.DefaultSettings(), func(s *models.Settings) error {
		patch.Apply(s)
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	s.Version = ver

	err = r.activities.record(ctx, models.ActivitySystem, "Store settings updated", "")
	return s, err
}

// shippingRate returns the charge for method on a given subtotal.
func shippingRate(s models.ShippingSettings, method models.ShippingMethod, subtotal float64) float64 {
	if s.FreeShippingThreshold > 0 && subtotal >= s.FreeShippingThreshold {
		return 0
	}
	switch method {
	case models.ShippingExpress:
		return s.ExpressShipping
	case models.ShippingInternational:
		return s.InternationalShipping
	default:
		return s.StandardShipping
	}
}
