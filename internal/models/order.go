package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type ShippingMethod string

const (
	ShippingStandard      ShippingMethod = "standard"
	ShippingExpress       ShippingMethod = "express"
	ShippingInternational ShippingMethod = "international"
)

// OrderItem is a priced line captured at checkout.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
}

// Order embeds a snapshot of the customer as it was at checkout.
type Order struct {
	ID              string         `json:"id"`
	Customer        Customer       `json:"customer"`
	Items           []OrderItem    `json:"items"`
	Total           float64        `json:"total"`
	Subtotal        float64        `json:"subtotal"`
	Shipping        float64        `json:"shipping"`
	Tax             float64        `json:"tax"`
	Status          OrderStatus    `json:"status"`
	PaymentStatus   PaymentStatus  `json:"paymentStatus"`
	PaymentMethod   string         `json:"paymentMethod"`
	ShippingMethod  ShippingMethod `json:"shippingMethod"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  Address        `json:"billingAddress"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`

	Version int64 `json:"-"`
}

type CheckoutItem struct {
	ProductID int64  `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CheckoutInput describes a storefront order. Name and email default to the
// signed-in user.
type CheckoutInput struct {
	Name            string         `json:"name"`
	Email           string         `json:"email" binding:"omitempty,email"`
	Phone           string         `json:"phone"`
	Items           []CheckoutItem `json:"items"`
	PaymentMethod   string         `json:"paymentMethod" binding:"required,oneof=card cash paypal"`
	ShippingMethod  ShippingMethod `json:"shippingMethod" binding:"omitempty,oneof=standard express international"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  *Address       `json:"billingAddress"`
	Notes           string         `json:"notes"`
}

type OrderFilters struct {
	Search        string
	Status        string
	PaymentStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
	SortBy        string // createdAt | total
	SortOrder     string
	Page          int
	Limit         int
}

type OrderStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
