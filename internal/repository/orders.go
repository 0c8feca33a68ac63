package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const orderNoun = "Order"

type OrderRepository struct {
	*base
	activities *ActivityLogger
	products   *ProductRepository
	customers  *CustomerRepository
	settings   *SettingsRepository
	taxRate    float64
}

func (r *OrderRepository) key(id string) string {
	return r.store.Key(storage.NSOrders, id)
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (r *OrderRepository) all(ctx context.Context) ([]models.Order, error) {
	recs, err := storage.List[models.Order](ctx, r.store, storage.NSOrders)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, len(recs))
	for i, rec := range recs {
		out[i] = rec.Value
		out[i].Version = rec.Version
	}
	return out, nil
}

func (r *OrderRepository) List(ctx context.Context, f models.OrderFilters) (models.Page[models.Order], error) {
	if err := r.wait(ctx); err != nil {
		return models.Page[models.Order]{}, err
	}
	orders, err := r.all(ctx)
	if err != nil {
		return models.Page[models.Order]{}, err
	}

	filtered := orders[:0]
	for _, o := range orders {
		if !matchesSearch(f.Search, o.ID, o.Customer.Name, o.Customer.Email) {
			continue
		}
		if !matchesFilter(string(o.Status), f.Status) || !matchesFilter(string(o.PaymentStatus), f.PaymentStatus) {
			continue
		}
		if f.DateFrom != nil && o.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && o.CreatedAt.After(*f.DateTo) {
			continue
		}
		filtered = append(filtered, o)
	}

	order := f.SortOrder
	if order == "" {
		order = "desc"
	}
	s := newSorter[models.Order](order)
	if f.SortBy == "total" {
		s.byNumber(filtered, func(o models.Order) float64 { return o.Total })
	} else {
		s.byTime(filtered, func(o models.Order) int64 { return o.CreatedAt.UnixNano() })
	}

	data, meta := paginate(filtered, f.Page, f.Limit)
	return models.Page[models.Order]{Data: data, Pagination: meta}, nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (models.Order, error) {
	if err := r.wait(ctx); err != nil {
		return models.Order{}, err
	}
	o, ver, err := load[models.Order](ctx, r.store, r.key(id), orderNoun)
	o.Version = ver
	return o, err
}

// UpdateStatus moves the order to any status; transitions are not restricted.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if err := r.wait(ctx); err != nil {
		return models.Order{}, err
	}
	if !models.ValidOrderStatus(status) {
		return models.Order{}, BadRequest("Invalid order status")
	}
	o, ver, err := mutate(ctx, r.store, r.key(id), orderNoun, 0, func(o *models.Order) error {
		o.Status = status
		o.UpdatedAt = r.stamp(o.UpdatedAt)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	o.Version = ver

	err = r.activities.record(ctx, models.ActivityOrder, fmt.Sprintf("Order %s status updated to %s", o.ID, status), "")
	return o, err
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (models.Order, error) {
	if err := r.wait(ctx); err != nil {
		return models.Order{}, err
	}
	if !models.ValidPaymentStatus(status) {
		return models.Order{}, BadRequest("Invalid payment status")
	}
	o, ver, err := mutate(ctx, r.store, r.key(id), orderNoun, 0, func(o *models.Order) error {
		o.PaymentStatus = status
		o.UpdatedAt = r.stamp(o.UpdatedAt)
		return nil
	})
	o.Version = ver
	return o, err
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	o, err := remove[models.Order](ctx, r.store, r.key(id), orderNoun)
	if err != nil {
		return err
	}
	return r.activities.record(ctx, models.ActivityOrder, fmt.Sprintf("Order %s deleted", o.ID), "")
}

func (r *OrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	if err := r.wait(ctx); err != nil {
		return models.OrderStats{}, err
	}
	orders, err := r.all(ctx)
	if err != nil {
		return models.OrderStats{}, err
	}
	var stats models.OrderStats
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			stats.Pending++
		case models.OrderProcessing:
			stats.Processing++
		case models.OrderShipped:
			stats.Shipped++
		case models.OrderDelivered:
			stats.Delivered++
		}
	}
	return stats, nil
}

type reservation struct {
	productID int64
	quantity  int
}

// Create places a storefront order. Stock is reserved line by line; if any line
// cannot be reserved, the earlier reservations are released and nothing is written.
func (r *OrderRepository) Create(ctx context.Context, in models.CheckoutInput) (models.Order, error) {
	if err := r.wait(ctx); err != nil {
		return models.Order{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return models.Order{}, BadRequest("Customer name and email are required")
	}
	if len(in.Items) == 0 {
		return models.Order{}, BadRequest("Order must contain at least one item")
	}
	settings, err := r.settings.get(ctx)
	if err != nil {
		return models.Order{}, err
	}

	for _, line := range in.Items {
		if line.Quantity < 1 {
			return models.Order{}, BadRequest("Quantity must be at least 1")
		}
		p, err := r.products.get(ctx, line.ProductID)
		if isNotFound(err) {
			return models.Order{}, BadRequest(fmt.Sprintf("Product %d not found", line.ProductID))
		}
		if err != nil {
			return models.Order{}, err
		}
		if p.Status != models.ProductActive {
			return models.Order{}, BadRequest(fmt.Sprintf("Product %q is not available", p.Name))
		}
		if line.Size != "" && len(p.Sizes) > 0 && !p.Sizes.Contains(line.Size) {
			return models.Order{}, BadRequest(fmt.Sprintf("Size %s is not offered for %q", line.Size, p.Name))
		}
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	reserved := make([]reservation, 0, len(in.Items))
	lowStock := make([]models.Product, 0, len(in.Items))
	var subtotal float64
	for _, line := range in.Items {
		p, err := r.products.adjustStock(ctx, line.ProductID, -line.Quantity, true)
		if err != nil {
			// adjustStock writes nothing when it fails
			r.release(ctx, reserved)
			if isNotFound(err) {
				return models.Order{}, BadRequest(fmt.Sprintf("Product %d not found", line.ProductID))
			}
			return models.Order{}, err
		}
		reserved = append(reserved, reservation{productID: line.ProductID, quantity: line.Quantity})
		lowStock = append(lowStock, p)
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.Price,
			Size:      line.Size,
		})
		subtotal += p.Price * float64(line.Quantity)
	}

	// activity writes are deferred until the order exists
	var followUp []error
	customer, err := r.checkoutCustomer(ctx, in)
	if err != nil && customer.ID == 0 {
		r.release(ctx, reserved)
		return models.Order{}, err
	}
	followUp = append(followUp, err)

	method := in.ShippingMethod
	if method == "" {
		method = models.ShippingStandard
	}
	subtotal = round2(subtotal)
	shipping := shippingRate(settings.Shipping, method, subtotal)
	tax := round2(subtotal * r.taxRate)
	shippingAddr := in.ShippingAddress
	shippingAddr.Type = models.AddressShipping
	billingAddr := shippingAddr
	if in.BillingAddress != nil {
		billingAddr = *in.BillingAddress
	}
	billingAddr.Type = models.AddressBilling

	now := r.now().UTC()
	o, ver, err := insert(ctx, r.store, func() (string, models.Order) {
		id := newOrderID()
		return r.key(id), models.Order{
			ID:              id,
			Customer:        customer,
			Items:           items,
			Subtotal:        subtotal,
			Shipping:        shipping,
			Tax:             tax,
			Total:           round2(subtotal + shipping + tax),
			Status:          models.OrderPending,
			PaymentStatus:   models.PaymentPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingMethod:  method,
			ShippingAddress: shippingAddr,
			BillingAddress:  billingAddr,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	})
	if err != nil {
		r.release(ctx, reserved)
		return models.Order{}, err
	}
	o.Version = ver

	if _, err := r.customers.recordOrder(ctx, customer.ID, o.Total, now); err != nil {
		return o, errors.Join(append(followUp, fmt.Errorf("update customer totals: %w", err))...)
	}
	for _, p := range lowStock {
		followUp = append(followUp, r.products.alertLowStock(ctx, p))
	}
	followUp = append(followUp, r.activities.record(ctx, models.ActivityOrder,
		fmt.Sprintf("New order %s from %s", o.ID, customer.Name), fmt.Sprintf("Total: $%.2f", o.Total)))
	return o, errors.Join(followUp...)
}

func (r *OrderRepository) checkoutCustomer(ctx context.Context, in models.CheckoutInput) (models.Customer, error) {
	c, err := r.customers.findByEmail(ctx, in.Email)
	if err == nil || !isNotFound(err) {
		return c, err
	}
	addr := in.ShippingAddress
	addr.ID = r.ids.Next()
	addr.Type = models.AddressShipping
	addr.IsDefault = true
	return r.customers.create(ctx, models.CustomerInput{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Addresses: []models.Address{addr},
	})
}

// release puts reserved stock back. Failures are logged; the checkout error is returned.
func (r *OrderRepository) release(ctx context.Context, reserved []reservation) {
	for _, res := range reserved {
		if err := r.products.restock(context.WithoutCancel(ctx), res.productID, res.quantity); err != nil {
			r.log.WithError(err).WithField("productId", res.productID).Error("failed to release reserved stock")
		}
	}
}
