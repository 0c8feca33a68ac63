package models

import "time"

type ActivityType string

const (
	ActivityOrder    ActivityType = "order"
	ActivityProduct  ActivityType = "product"
	ActivityCustomer ActivityType = "customer"
	ActivityStock    ActivityType = "stock"
	ActivitySystem   ActivityType = "system"
)

type Activity struct {
	ID        int64        `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	UserID    *int64       `json:"userId,omitempty"`
}
