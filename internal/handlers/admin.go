package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/models"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

func (h HandlerSet) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"products":       stats.Products,
		"customers":      stats.Customers,
		"orders":         stats.Orders,
		"pendingReturns": stats.PendingReturns,
		"lowStock":       stats.LowStock,
		"revenueCents":   stats.RevenueCents,
		"revenue":        service.FormatAmount(stats.RevenueCents),
	})
}

func (h HandlerSet) ListCustomers(c *gin.Context) {
	limit, offset := pagination(c, 50)

	users, err := h.users.ListByRole(c.Request.Context(), models.UserRoleCustomer, limit, offset)
	if err != nil {
		h.fail(c, err, "Failed to fetch customers")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, newUserResponse(user))
	}
	respond(c, http.StatusOK, "", items)
}

func (h HandlerSet) GetCustomer(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrUserNotFound) || (err == nil && user.Role != models.UserRoleCustomer) {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to fetch customer")
		return
	}
	respond(c, http.StatusOK, "", newUserResponse(user))
}

func (h HandlerSet) SetCustomerStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	status := models.UserStatus(req.Status)
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		respondError(c, http.StatusBadRequest, "Status must be active or suspended")
		return
	}

	err := h.users.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update customer")
		return
	}
	respond(c, http.StatusOK, "Customer updated successfully", nil)
}
