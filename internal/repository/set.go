package repository

import (
	"time"

	"github.com/sirupsen/logrus"

	"noirstore/internal/storage"
)

const (
	defaultActivityLimit = 100
	defaultLowStock      = 5
	defaultSessionTTL    = 24 * time.Hour
)

// Set wires every repository to one store.
type Set struct {
	Products   *ProductRepository
	Orders     *OrderRepository
	Customers  *CustomerRepository
	Settings   *SettingsRepository
	Content    *SiteContentRepository
	Activities *ActivityLogger
	Auth       *AuthRepository
	Carts      *CartRepository
	Dashboard  *DashboardRepository
}

// NewSet builds the repositories. pub may be nil.
func NewSet(store *storage.Store, opts Options, pub Publisher, log *logrus.Entry) (*Set, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ActivityLimit < 1 {
		opts.ActivityLimit = defaultActivityLimit
	}
	if opts.LowStockThreshold == 0 {
		opts.LowStockThreshold = defaultLowStock
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}

	b := &base{
		store:   store,
		latency: opts.Latency,
		now:     opts.Now,
		ids:     newIDGenerator(opts.Now),
		log:     log,
	}
	activities := &ActivityLogger{base: b, limit: opts.ActivityLimit, pub: pub}
	products := &ProductRepository{base: b, activities: activities, lowStock: opts.LowStockThreshold}
	customers := &CustomerRepository{base: b, activities: activities}
	settings := &SettingsRepository{base: b, activities: activities}
	orders := &OrderRepository{
		base:       b,
		activities: activities,
		products:   products,
		customers:  customers,
		settings:   settings,
		taxRate:    opts.TaxRate,
	}
	auth, err := newAuthRepository(b, activities, opts)
	if err != nil {
		return nil, err
	}

	return &Set{
		Products:   products,
		Orders:     orders,
		Customers:  customers,
		Settings:   settings,
		Content:    &SiteContentRepository{base: b, activities: activities},
		Activities: activities,
		Auth:       auth,
		Carts:      &CartRepository{base: b, products: products, orders: orders},
		Dashboard:  &DashboardRepository{base: b, products: products, orders: orders, customers: customers},
	}, nil
}
