// Package seed loads the demo catalogue, customers and orders into an empty store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

//go:embed data.json
var raw []byte

type Dataset struct {
	Products   []models.Product  `json:"products"`
	Customers  []models.Customer `json:"customers"`
	Orders     []models.Order    `json:"orders"`
	Activities []models.Activity `json:"activities"`
}

type marker struct {
	SeededAt time.Time `json:"seededAt"`
	Products int       `json:"products"`
}

// Load decodes the embedded dataset.
func Load() (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode seed data: %w", err)
	}
	return ds, nil
}

// Apply writes the dataset unless the store is already marked as seeded.
// Timestamps are shifted so the newest record lands at now.
// Records that already exist are left alone.
func Apply(ctx context.Context, store *storage.Store, now time.Time, log *logrus.Entry) (bool, error) {
	markerKey := store.Key(storage.NSSeeded)
	var m marker
	_, err := store.Get(ctx, markerKey, &m)
	if err == nil {
		log.WithField("seededAt", m.SeededAt).Debug("store already seeded")
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	ds, err := Load()
	if err != nil {
		return false, err
	}
	ds.shift(now.UTC())

	for _, p := range ds.Products {
		if err := create(ctx, store, store.Key(storage.NSProducts, strconv.FormatInt(p.ID, 10)), p); err != nil {
			return false, err
		}
	}
	for _, c := range ds.Customers {
		if err := create(ctx, store, store.Key(storage.NSCustomers, strconv.FormatInt(c.ID, 10)), c); err != nil {
			return false, err
		}
	}
	for _, o := range ds.Orders {
		if err := create(ctx, store, store.Key(storage.NSOrders, o.ID), o); err != nil {
			return false, err
		}
	}
	if err := create(ctx, store, store.Key(storage.NSActivities), ds.Activities); err != nil {
		return false, err
	}
	if err := create(ctx, store, store.Key(storage.NSSettings), models.DefaultSettings()); err != nil {
		return false, err
	}

	m = marker{SeededAt: now.UTC(), Products: len(ds.Products)}
	if _, err := store.Set(ctx, markerKey, m, storage.AnyVersion); err != nil {
		return false, err
	}
	log.WithFields(logrus.Fields{
		"products":  len(ds.Products),
		"customers": len(ds.Customers),
		"orders":    len(ds.Orders),
	}).Info("seeded store")
	return true, nil
}

func create(ctx context.Context, store *storage.Store, key string, v any) error {
	_, err := store.Set(ctx, key, v, storage.NoVersion)
	if errors.Is(err, storage.ErrConflict) {
		return nil
	}
	return err
}

func (ds *Dataset) latest() time.Time {
	var newest time.Time
	bump := func(t time.Time) {
		if t.After(newest) {
			newest = t
		}
	}
	for _, p := range ds.Products {
		bump(p.UpdatedAt)
	}
	for _, c := range ds.Customers {
		bump(c.UpdatedAt)
	}
	for _, o := range ds.Orders {
		bump(o.UpdatedAt)
	}
	for _, a := range ds.Activities {
		bump(a.Timestamp)
	}
	return newest
}

func (ds *Dataset) shift(now time.Time) {
	latest := ds.latest()
	if latest.IsZero() {
		return
	}
	d := now.Sub(latest)
	move := func(t *time.Time) {
		if t != nil && !t.IsZero() {
			*t = t.Add(d)
		}
	}
	for i := range ds.Products {
		move(&ds.Products[i].CreatedAt)
		move(&ds.Products[i].UpdatedAt)
	}
	for i := range ds.Customers {
		c := &ds.Customers[i]
		move(&c.CreatedAt)
		move(&c.UpdatedAt)
		move(c.LastOrderAt)
	}
	for i := range ds.Orders {
		o := &ds.Orders[i]
		move(&o.CreatedAt)
		move(&o.UpdatedAt)
		move(&o.Customer.CreatedAt)
		move(&o.Customer.UpdatedAt)
		move(o.Customer.LastOrderAt)
	}
	for i := range ds.Activities {
		move(&ds.Activities[i].Timestamp)
	}
}
