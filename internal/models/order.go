package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type CartItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

type Cart struct {
	Owner      string     `json:"-"`
	Items      []CartItem `json:"items"`
	TotalCents int64      `json:"totalCents"`
}

type OrderItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	Status            OrderStatus `json:"status"`
	Items             []OrderItem `json:"items"`
	TotalCents        int64       `json:"totalCents"`
	ShippingAddressID *string     `json:"shippingAddressId"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderDraft, PurchaseOrderOrdered, PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s PurchaseOrderStatus) Terminal() bool {
	return s == PurchaseOrderReceived || s == PurchaseOrderCancelled
}

type PurchaseOrderItem struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	UnitCostCents int64  `json:"unitCostCents"`
}

type PurchaseOrder struct {
	ID        string              `json:"id"`
	Supplier  string              `json:"supplier"`
	Status    PurchaseOrderStatus `json:"status"`
	Items     []PurchaseOrderItem `json:"items"`
	CreatedBy string              `json:"createdBy"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnRefunded  ReturnStatus = "refunded"
)

func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnRequested, ReturnApproved, ReturnRejected, ReturnRefunded:
		return true
	}
	return false
}

type Return struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"orderId"`
	UserID      string       `json:"userId"`
	Reason      string       `json:"reason"`
	Status      ReturnStatus `json:"status"`
	RefundCents int64        `json:"refundCents"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
