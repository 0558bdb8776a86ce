package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/cache"
	"shopfront/internal/middleware"
)

// cartOwner prefers the signed-in user and falls back to the guest session
// header.
func cartOwner(c *gin.Context) (cache.CartOwner, bool) {
	if user, ok := middleware.CurrentUser(c); ok {
		return cache.UserCart(user.ID), true
	}
	if sid := c.GetHeader(cartSessionHeader); sid != "" {
		return cache.GuestCart(sid), true
	}
	respondError(c, http.StatusBadRequest, "Cart session required")
	return cache.CartOwner{}, false
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

func (h HandlerSet) GetCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), owner)
	if err != nil {
		h.fail(c, err, "Failed to fetch cart")
		return
	}
	respond(c, http.StatusOK, "", cart)
}

func (h HandlerSet) AddCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	var req cartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		h.fail(c, err, "Failed to add item to cart")
		return
	}
	respond(c, http.StatusOK, "Item added to cart", cart)
}

func (h HandlerSet) UpdateCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	var req cartQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.carts.SetQuantity(c.Request.Context(), owner, c.Param("productId"), *req.Quantity)
	if err != nil {
		h.fail(c, err, "Failed to update cart item")
		return
	}
	respond(c, http.StatusOK, "Cart updated", cart)
}

func (h HandlerSet) RemoveCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), owner, c.Param("productId"))
	if err != nil {
		h.fail(c, err, "Failed to remove cart item")
		return
	}
	respond(c, http.StatusOK, "Item removed from cart", cart)
}

func (h HandlerSet) ClearCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), owner); err != nil {
		h.fail(c, err, "Failed to clear cart")
		return
	}
	respond(c, http.StatusOK, "Cart cleared", nil)
}
