package models

import "time"

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

type Address struct {
	ID         int64       `json:"id"`
	Type       AddressType `json:"type"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	Country    string      `json:"country"`
	PostalCode string      `json:"postalCode"`
	IsDefault  bool        `json:"isDefault"`
}

// Customer aggregates (Orders, TotalSpent) are maintained incrementally at
// checkout; they are never rebuilt from order history.
type Customer struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Avatar      string         `json:"avatar,omitempty"`
	Orders      int            `json:"orders"`
	TotalSpent  float64        `json:"totalSpent"`
	Status      CustomerStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	LastOrderAt *time.Time     `json:"lastOrderAt,omitempty"`
	Addresses   []Address      `json:"addresses"`

	Version int64 `json:"-"`
}

type CustomerInput struct {
	Name      string         `json:"name" binding:"required"`
	Email     string         `json:"email" binding:"required,email"`
	Phone     string         `json:"phone"`
	Avatar    string         `json:"avatar"`
	Status    CustomerStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	Addresses []Address      `json:"addresses"`
}

type CustomerPatch struct {
	Name      *string         `json:"name" binding:"omitempty,min=1"`
	Email     *string         `json:"email" binding:"omitempty,email"`
	Phone     *string         `json:"phone"`
	Avatar    *string         `json:"avatar"`
	Status    *CustomerStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	Addresses *[]Address      `json:"addresses"`
}

func (patch CustomerPatch) Apply(c *Customer) bool {
	changed := false
	if patch.Name != nil {
		c.Name = *patch.Name
		changed = true
	}
	if patch.Email != nil {
		c.Email = *patch.Email
		changed = true
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
		changed = true
	}
	if patch.Avatar != nil {
		c.Avatar = *patch.Avatar
		changed = true
	}
	if patch.Status != nil {
		c.Status = *patch.Status
		changed = true
	}
	if patch.Addresses != nil {
		c.Addresses = *patch.Addresses
		changed = true
	}
	return changed
}

type CustomerFilters struct {
	Search    string
	Status    string
	SortBy    string // name | totalSpent | orders | createdAt
	SortOrder string
	Page      int
	Limit     int
}

type CustomerStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	TotalRevenue float64 `json:"totalRevenue"`
}
