package api

import (
	"context"
	"net/http"

	"shopfront/internal/models"
)

type CustomersAPI struct{ c Doer }

func (a CustomersAPI) List(ctx context.Context, page Page) ([]AuthUser, error) {
	var out []AuthUser
	err := get(ctx, a.c, "/customers", page.values(), &out)
	return out, err
}

func (a CustomersAPI) Get(ctx context.Context, id string) (AuthUser, error) {
	var out AuthUser
	err := get(ctx, a.c, "/customers"+path(id), nil, &out)
	return out, err
}

func (a CustomersAPI) SetStatus(ctx context.Context, id, status string) error {
	return send(ctx, a.c, http.MethodPut, "/customers"+path(id, "status"), map[string]string{"status": status}, nil)
}

type PurchaseItem struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	UnitCostCents int64  `json:"unitCostCents"`
}

type PurchaseRequest struct {
	Supplier string         `json:"supplier"`
	Status   string         `json:"status,omitempty"`
	Items    []PurchaseItem `json:"items"`
}

type PurchaseAPI struct{ c Doer }

func (a PurchaseAPI) List(ctx context.Context, page Page) ([]models.PurchaseOrder, error) {
	var out []models.PurchaseOrder
	err := get(ctx, a.c, "/purchase-orders", page.values(), &out)
	return out, err
}

func (a PurchaseAPI) Create(ctx context.Context, req PurchaseRequest) (models.PurchaseOrder, error) {
	var out models.PurchaseOrder
	err := send(ctx, a.c, http.MethodPost, "/purchase-orders", req, &out)
	return out, err
}

func (a PurchaseAPI) Get(ctx context.Context, id string) (models.PurchaseOrder, error) {
	var out models.PurchaseOrder
	err := get(ctx, a.c, "/purchase-orders"+path(id), nil, &out)
	return out, err
}

func (a PurchaseAPI) SetStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) (models.PurchaseOrder, error) {
	var out models.PurchaseOrder
	err := send(ctx, a.c, http.MethodPut, "/purchase-orders"+path(id, "status"), map[string]string{"status": string(status)}, &out)
	return out, err
}

type Dashboard struct {
	models.DashboardStats
	Revenue string `json:"revenue"`
}

type AdminAPI struct{ c Doer }

func (a AdminAPI) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	err := get(ctx, a.c, "/admin/dashboard", nil, &out)
	return out, err
}

func (a AdminAPI) Orders(ctx context.Context, status string, page Page) ([]models.Order, error) {
	q := page.values()
	if status != "" {
		q.Set("status", status)
	}
	var out []models.Order
	err := get(ctx, a.c, "/admin/orders", q, &out)
	return out, err
}

func (a AdminAPI) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := send(ctx, a.c, http.MethodPut, "/admin/orders"+path(id, "status"), map[string]string{"status": string(status)}, &out)
	return out, err
}

func (a AdminAPI) Returns(ctx context.Context, status string, page Page) ([]Return, error) {
	q := page.values()
	if status != "" {
		q.Set("status", status)
	}
	var out []Return
	err := get(ctx, a.c, "/admin/returns", q, &out)
	return out, err
}

func (a AdminAPI) UpdateReturn(ctx context.Context, id string, status models.ReturnStatus, refundCents int64) (Return, error) {
	var out Return
	body := map[string]any{"status": string(status), "refundCents": refundCents}
	err := send(ctx, a.c, http.MethodPut, "/admin/returns"+path(id), body, &out)
	return out, err
}
