package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

type Permission string

const (
	PermProductsRead    Permission = "products.read"
	PermProductsWrite   Permission = "products.write"
	PermProductsDelete  Permission = "products.delete"
	PermOrdersRead      Permission = "orders.read"
	PermOrdersWrite     Permission = "orders.write"
	PermOrdersDelete    Permission = "orders.delete"
	PermCustomersRead   Permission = "customers.read"
	PermCustomersWrite  Permission = "customers.write"
	PermCustomersDelete Permission = "customers.delete"
	PermAnalyticsRead   Permission = "analytics.read"
	PermSettingsRead    Permission = "settings.read"
	PermSettingsWrite   Permission = "settings.write"
)

// AllPermissions is the permission list granted to the admin account.
func AllPermissions() []Permission {
	return []Permission{
		PermProductsRead, PermProductsWrite, PermProductsDelete,
		PermOrdersRead, PermOrdersWrite, PermOrdersDelete,
		PermCustomersRead, PermCustomersWrite, PermCustomersDelete,
		PermAnalyticsRead,
		PermSettingsRead, PermSettingsWrite,
	}
}

// User is the authenticated account.
type User struct {
	ID          int64        `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	Avatar      string       `json:"avatar,omitempty"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	LastLoginAt time.Time    `json:"lastLoginAt"`
}

type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is the persisted state behind an issued token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}

type ProfilePatch struct {
	Name   *string `json:"name" binding:"omitempty,min=1"`
	Avatar *string `json:"avatar"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
