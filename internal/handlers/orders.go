package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/models"
)

type checkoutRequest struct {
	ShippingAddressID *string `json:"shippingAddressId"`
}

func (h HandlerSet) Checkout(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), currentUser(c).ID, req.ShippingAddressID)
	if err != nil {
		h.fail(c, err, "Failed to place order")
		return
	}
	respond(c, http.StatusCreated, "Order placed successfully", order)
}

func (h HandlerSet) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "Failed to fetch orders")
		return
	}
	respond(c, http.StatusOK, "", orders)
}

func (h HandlerSet) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch order")
		return
	}
	respond(c, http.StatusOK, "", order)
}

func (h HandlerSet) AdminListOrders(c *gin.Context) {
	limit, offset := pagination(c, 50)
	orders, err := h.orders.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.fail(c, err, "Failed to fetch orders")
		return
	}
	respond(c, http.StatusOK, "", orders)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) AdminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		h.fail(c, err, "Failed to update order")
		return
	}
	respond(c, http.StatusOK, "Order updated successfully", order)
}
