package repository

import (
	"context"
	"fmt"
	"strconv"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const productNoun = "Product"

type ProductRepository struct {
	*base
	activities *ActivityLogger
	lowStock   int
}

func (r *ProductRepository) key(id int64) string {
	return r.store.Key(storage.NSProducts, strconv.FormatInt(id, 10))
}

func (r *ProductRepository) all(ctx context.Context) ([]models.Product, error) {
	recs, err := storage.List[models.Product](ctx, r.store, storage.NSProducts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, len(recs))
	for i, rec := range recs {
		out[i] = rec.Value
		out[i].Version = rec.Version
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, f models.ProductFilters) (models.Page[models.Product], error) {
	if err := r.wait(ctx); err != nil {
		return models.Page[models.Product]{}, err
	}
	products, err := r.all(ctx)
	if err != nil {
		return models.Page[models.Product]{}, err
	}

	filtered := products[:0]
	for _, p := range products {
		if !matchesSearch(f.Search, p.Name, p.Description) {
			continue
		}
		if !matchesFilter(p.Category, f.Category) || !matchesFilter(string(p.Status), f.Status) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	order := f.SortOrder
	if order == "" {
		order = "desc"
	}
	s := newSorter[models.Product](order)
	switch f.SortBy {
	case "name":
		s.byString(filtered, func(p models.Product) string { return p.Name })
	case "price":
		s.byNumber(filtered, func(p models.Product) float64 { return p.Price })
	case "stock":
		s.byNumber(filtered, func(p models.Product) float64 { return float64(p.Stock) })
	default:
		s.byTime(filtered, func(p models.Product) int64 { return p.CreatedAt.UnixNano() })
	}

	data, meta := paginate(filtered, f.Page, f.Limit)
	return models.Page[models.Product]{Data: data, Pagination: meta}, nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (models.Product, error) {
	if err := r.wait(ctx); err != nil {
		return models.Product{}, err
	}
	return r.get(ctx, id)
}

func (r *ProductRepository) get(ctx context.Context, id int64) (models.Product, error) {
	p, ver, err := load[models.Product](ctx, r.store, r.key(id), productNoun)
	p.Version = ver
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := r.wait(ctx); err != nil {
		return models.Product{}, err
	}
	now := r.now().UTC()
	status := in.Status
	if status == "" {
		status = models.ProductActive
	}
	sizes := in.Sizes
	if sizes == nil {
		sizes = models.StringList{}
	}

	p, ver, err := insert(ctx, r.store, func() (string, models.Product) {
		id := r.ids.Next()
		return r.key(id), models.Product{
			ID:          id,
			Name:        in.Name,
			Price:       in.Price,
			Category:    in.Category,
			Image:       in.Image,
			Description: in.Description,
			Sizes:       sizes,
			Stock:       in.Stock,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	})
	if err != nil {
		return models.Product{}, err
	}
	p.Version = ver

	err = r.activities.record(ctx, models.ActivityProduct,
		fmt.Sprintf("Product %q created", p.Name), fmt.Sprintf("ID: %d", p.ID))
	return p, err
}

// Update applies patch. A positive ifVersion turns a version mismatch into a 409.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch models.ProductPatch, ifVersion int64) (models.Product, error) {
	if err := r.wait(ctx); err != nil {
		return models.Product{}, err
	}
	p, ver, err := mutate(ctx, r.store, r.key(id), productNoun, ifVersion, func(p *models.Product) error {
		patch.Apply(p)
		p.UpdatedAt = r.stamp(p.UpdatedAt)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	p.Version = ver

	err = r.activities.record(ctx, models.ActivityProduct, fmt.Sprintf("Product %q updated", p.Name), "")
	return p, err
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	p, err := remove[models.Product](ctx, r.store, r.key(id), productNoun)
	if err != nil {
		return err
	}
	return r.activities.record(ctx, models.ActivityProduct, fmt.Sprintf("Product %q deleted", p.Name), "")
}

// UpdateStock adds delta to the stock level. The result may go negative.
func (r *ProductRepository) UpdateStock(ctx context.Context, id int64, delta int) (models.Product, error) {
	if err := r.wait(ctx); err != nil {
		return models.Product{}, err
	}
	p, err := r.adjustStock(ctx, id, delta, false)
	if err != nil {
		return models.Product{}, err
	}
	return p, r.alertLowStock(ctx, p)
}

// ReserveStock takes qty units, failing with OutOfStockError when fewer are on hand.
func (r *ProductRepository) ReserveStock(ctx context.Context, id int64, qty int) (models.Product, error) {
	if err := r.wait(ctx); err != nil {
		return models.Product{}, err
	}
	p, err := r.adjustStock(ctx, id, -qty, true)
	if err != nil {
		return models.Product{}, err
	}
	return p, r.alertLowStock(ctx, p)
}

// adjustStock only writes the product; alerts are left to the caller.
func (r *ProductRepository) adjustStock(ctx context.Context, id int64, delta int, reserve bool) (models.Product, error) {
	p, ver, err := mutate(ctx, r.store, r.key(id), productNoun, 0, func(p *models.Product) error {
		if reserve && p.Stock < -delta {
			return OutOfStockError{ProductID: p.ID, Available: p.Stock, Requested: -delta}
		}
		p.Stock += delta
		p.UpdatedAt = r.stamp(p.UpdatedAt)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	p.Version = ver
	return p, nil
}

func (r *ProductRepository) alertLowStock(ctx context.Context, p models.Product) error {
	if p.Stock > r.lowStock {
		return nil
	}
	return r.activities.record(ctx, models.ActivityStock,
		"Low stock alert: "+p.Name, fmt.Sprintf("Only %d items left", p.Stock))
}

// restock undoes a reservation without raising a stock alert.
func (r *ProductRepository) restock(ctx context.Context, id int64, qty int) error {
	_, _, err := mutate(ctx, r.store, r.key(id), productNoun, 0, func(p *models.Product) error {
		p.Stock += qty
		p.UpdatedAt = r.stamp(p.UpdatedAt)
		return nil
	})
	return err
}
