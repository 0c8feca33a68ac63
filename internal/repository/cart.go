package repository

import (
	"context"
	"strconv"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

type CartRepository struct {
	*base
	products *ProductRepository
	orders   *OrderRepository
}

func (r *CartRepository) key(userID int64) string {
	return r.store.Key(storage.NSCart, strconv.FormatInt(userID, 10))
}

func newCart(items []models.CartItem) models.Cart {
	cart := models.Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	for _, it := range cart.Items {
		cart.Count += it.Quantity
		cart.Total += it.Price * float64(it.Quantity)
	}
	cart.Total = round2(cart.Total)
	return cart
}

func (r *CartRepository) Get(ctx context.Context, userID int64) (models.Cart, error) {
	if err := r.wait(ctx); err != nil {
		return models.Cart{}, err
	}
	items, _, err := storage.GetOr(ctx, r.store, r.key(userID), []models.CartItem{})
	if err != nil {
		return models.Cart{}, err
	}
	return newCart(items), nil
}

// Add puts qty units of a product size in the cart, merging with an existing line.
func (r *CartRepository) Add(ctx context.Context, userID int64, line models.CartLine) (models.Cart, error) {
	if err := r.wait(ctx); err != nil {
		return models.Cart{}, err
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	p, err := r.products.get(ctx, line.ProductID)
	if err != nil {
		return models.Cart{}, err
	}
	if p.Status != models.ProductActive {
		return models.Cart{}, BadRequest("Product is not available")
	}
	if line.Size != "" && len(p.Sizes) > 0 && !p.Sizes.Contains(line.Size) {
		return models.Cart{}, BadRequest("Size " + line.Size + " is not offered for this product")
	}

	items, _, err := mutateOr(ctx, r.store, r.key(userID), []models.CartItem{}, func(items *[]models.CartItem) error {
		for i := range *items {
			it := &(*items)[i]
			if it.ProductID == line.ProductID && it.Size == line.Size {
				it.Quantity += line.Quantity
				it.Price = p.Price
				return nil
			}
		}
		*items = append(*items, models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
		return nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	return newCart(items), nil
}

// UpdateQuantity sets a line's quantity; below 1 removes the line.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID int64, line models.CartLine) (models.Cart, error) {
	if err := r.wait(ctx); err != nil {
		return models.Cart{}, err
	}
	items, _, err := mutateOr(ctx, r.store, r.key(userID), []models.CartItem{}, func(items *[]models.CartItem) error {
		for i, it := range *items {
			if it.ProductID != line.ProductID || it.Size != line.Size {
				continue
			}
			if line.Quantity < 1 {
				*items = append((*items)[:i], (*items)[i+1:]...)
			} else {
				(*items)[i].Quantity = line.Quantity
			}
			return nil
		}
		return NotFound("Cart item")
	})
	if err != nil {
		return models.Cart{}, err
	}
	return newCart(items), nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID int64, size string) (models.Cart, error) {
	return r.UpdateQuantity(ctx, userID, models.CartLine{ProductID: productID, Size: size, Quantity: 0})
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.store.Remove(ctx, r.key(userID))
}

// Checkout places an order. Without explicit items the user's cart is ordered and
// emptied once the order exists.
func (r *CartRepository) Checkout(ctx context.Context, userID int64, in models.CheckoutInput) (models.Order, error) {
	fromCart := len(in.Items) == 0
	if fromCart {
		lines, err := r.lines(ctx, userID)
		if err != nil {
			return models.Order{}, err
		}
		if len(lines) == 0 {
			return models.Order{}, BadRequest("Cart is empty")
		}
		in.Items = lines
	}
	order, err := r.orders.Create(ctx, in)
	if order.ID == "" || !fromCart {
		return order, err
	}
	if clearErr := r.store.Remove(ctx, r.key(userID)); clearErr != nil && err == nil {
		err = clearErr
	}
	return order, err
}

func (r *CartRepository) lines(ctx context.Context, userID int64) ([]models.CheckoutItem, error) {
	items, _, err := storage.GetOr(ctx, r.store, r.key(userID), []models.CartItem{})
	if err != nil {
		return nil, err
	}
	out := make([]models.CheckoutItem, len(items))
	for i, it := range items {
		out[i] = models.CheckoutItem{ProductID: it.ProductID, Size: it.Size, Quantity: it.Quantity}
	}
	return out, nil
}
