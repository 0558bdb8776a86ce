package models

import "time"

type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RewardEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OrderID   *string   `json:"orderId"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type DashboardStats struct {
	Products       int   `json:"products"`
	Customers      int   `json:"customers"`
	Orders         int   `json:"orders"`
	PendingReturns int   `json:"pendingReturns"`
	LowStock       int   `json:"lowStock"`
	RevenueCents   int64 `json:"revenueCents"`
}
