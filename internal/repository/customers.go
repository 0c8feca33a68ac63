package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const customerNoun = "Customer"

type CustomerRepository struct {
	*base
	activities *ActivityLogger
}

func (r *CustomerRepository) key(id int64) string {
	return r.store.Key(storage.NSCustomers, strconv.FormatInt(id, 10))
}

func (r *CustomerRepository) all(ctx context.Context) ([]models.Customer, error) {
	recs, err := storage.List[models.Customer](ctx, r.store, storage.NSCustomers)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, len(recs))
	for i, rec := range recs {
		out[i] = rec.Value
		out[i].Version = rec.Version
	}
	return out, nil
}

func (r *CustomerRepository) List(ctx context.Context, f models.CustomerFilters) (models.Page[models.Customer], error) {
	if err := r.wait(ctx); err != nil {
		return models.Page[models.Customer]{}, err
	}
	customers, err := r.all(ctx)
	if err != nil {
		return models.Page[models.Customer]{}, err
	}

	filtered := customers[:0]
	for _, c := range customers {
		if matchesSearch(f.Search, c.Name, c.Email) && matchesFilter(string(c.Status), f.Status) {
			filtered = append(filtered, c)
		}
	}

	order := f.SortOrder
	if order == "" {
		order = "asc"
	}
	s := newSorter[models.Customer](order)
	switch f.SortBy {
	case "totalSpent":
		s.byNumber(filtered, func(c models.Customer) float64 { return c.TotalSpent })
	case "orders":
		s.byNumber(filtered, func(c models.Customer) float64 { return float64(c.Orders) })
	case "createdAt":
		s.byTime(filtered, func(c models.Customer) int64 { return c.CreatedAt.UnixNano() })
	default:
		s.byString(filtered, func(c models.Customer) string { return c.Name })
	}

	data, meta := paginate(filtered, f.Page, f.Limit)
	return models.Page[models.Customer]{Data: data, Pagination: meta}, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (models.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return models.Customer{}, err
	}
	c, ver, err := load[models.Customer](ctx, r.store, r.key(id), customerNoun)
	c.Version = ver
	return c, err
}

// FindByEmail matches case-insensitively.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (models.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return models.Customer{}, err
	}
	return r.findByEmail(ctx, email)
}

func (r *CustomerRepository) findByEmail(ctx context.Context, email string) (models.Customer, error) {
	customers, err := r.all(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return models.Customer{}, NotFound(customerNoun)
}

func (r *CustomerRepository) Create(ctx context.Context, in models.CustomerInput) (models.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return models.Customer{}, err
	}
	if _, err := r.findByEmail(ctx, in.Email); err == nil {
		return models.Customer{}, Conflict("A customer with this email already exists")
	} else if !isNotFound(err) {
		return models.Customer{}, err
	}
	return r.create(ctx, in)
}

func (r *CustomerRepository) create(ctx context.Context, in models.CustomerInput) (models.Customer, error) {
	now := r.now().UTC()
	status := in.Status
	if status == "" {
		status = models.CustomerActive
	}
	addresses := in.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}

	c, ver, err := insert(ctx, r.store, func() (string, models.Customer) {
		id := r.ids.Next()
		return r.key(id), models.Customer{
			ID:        id,
			Name:      in.Name,
			Email:     strings.ToLower(strings.TrimSpace(in.Email)),
			Phone:     in.Phone,
			Avatar:    in.Avatar,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
			Addresses: addresses,
		}
	})
	if err != nil {
		return models.Customer{}, err
	}
	c.Version = ver

	err = r.activities.record(ctx, models.ActivityCustomer, "New customer registered: "+c.Name, c.Email)
	return c, err
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, patch models.CustomerPatch, ifVersion int64) (models.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return models.Customer{}, err
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &email
		if other, err := r.findByEmail(ctx, email); err == nil && other.ID != id {
			return models.Customer{}, Conflict("A customer with this email already exists")
		} else if err != nil && !isNotFound(err) {
			return models.Customer{}, err
		}
	}
	c, ver, err := mutate(ctx, r.store, r.key(id), customerNoun, ifVersion, func(c *models.Customer) error {
		patch.Apply(c)
		c.UpdatedAt = r.stamp(c.UpdatedAt)
		return nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	c.Version = ver

	err = r.activities.record(ctx, models.ActivityCustomer, fmt.Sprintf("Customer %q updated", c.Name), "")
	return c, err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	c, err := remove[models.Customer](ctx, r.store, r.key(id), customerNoun)
	if err != nil {
		return err
	}
	return r.activities.record(ctx, models.ActivityCustomer, fmt.Sprintf("Customer %q deleted", c.Name), "")
}

func (r *CustomerRepository) Stats(ctx context.Context) (models.CustomerStats, error) {
	if err := r.wait(ctx); err != nil {
		return models.CustomerStats{}, err
	}
	customers, err := r.all(ctx)
	if err != nil {
		return models.CustomerStats{}, err
	}
	stats := models.CustomerStats{Total: len(customers)}
	for _, c := range customers {
		if c.Status == models.CustomerActive {
			stats.Active++
		}
		stats.TotalRevenue += c.TotalSpent
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	return stats, nil
}

// recordOrder bumps the order count and spend of the customer.
func (r *CustomerRepository) recordOrder(ctx context.Context, id int64, total float64, at time.Time) (models.Customer, error) {
	c, ver, err := mutate(ctx, r.store, r.key(id), customerNoun, 0, func(c *models.Customer) error {
		c.Orders++
		c.TotalSpent = round2(c.TotalSpent + total)
		placed := at
		c.LastOrderAt = &placed
		c.UpdatedAt = r.stamp(c.UpdatedAt)
		return nil
	})
	c.Version = ver
	return c, err
}
