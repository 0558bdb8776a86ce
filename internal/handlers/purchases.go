package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/models"
	"shopfront/internal/service"
)

type purchaseItemRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity"`
	UnitCostCents int64  `json:"unitCostCents"`
}

type purchaseRequest struct {
	Supplier string                `json:"supplier"`
	Status   string                `json:"status"`
	Items    []purchaseItemRequest `json:"items" binding:"dive"`
}

func (h HandlerSet) ListPurchaseOrders(c *gin.Context) {
	limit, offset := pagination(c, 50)
	orders, err := h.purchases.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err, "Failed to fetch purchase orders")
		return
	}
	respond(c, http.StatusOK, "", orders)
}

func (h HandlerSet) CreatePurchaseOrder(c *gin.Context) {
	var req purchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]models.PurchaseOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.PurchaseOrderItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitCostCents: item.UnitCostCents,
		})
	}

	po, err := h.purchases.Create(c.Request.Context(), currentUser(c).ID, service.PurchaseInput{
		Supplier: req.Supplier,
		Status:   models.PurchaseOrderStatus(req.Status),
		Items:    items,
	})
	if err != nil {
		h.fail(c, err, "Failed to create purchase order")
		return
	}
	respond(c, http.StatusCreated, "Purchase order created successfully", po)
}

func (h HandlerSet) GetPurchaseOrder(c *gin.Context) {
	po, err := h.purchases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch purchase order")
		return
	}
	respond(c, http.StatusOK, "", po)
}

func (h HandlerSet) UpdatePurchaseOrderStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.purchases.UpdateStatus(c.Request.Context(), c.Param("id"), models.PurchaseOrderStatus(req.Status))
	if err != nil {
		h.fail(c, err, "Failed to update purchase order")
		return
	}
	respond(c, http.StatusOK, "Purchase order updated successfully", po)
}
