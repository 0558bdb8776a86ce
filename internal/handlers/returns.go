package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopfront/internal/models"
	"shopfront/internal/service"
)

type returnResponse struct {
	ID           string              `json:"id"`
	OrderID      string              `json:"orderId"`
	UserID       string              `json:"userId"`
	Reason       string              `json:"reason"`
	Status       models.ReturnStatus `json:"status"`
	RefundCents  int64               `json:"refundCents"`
	RefundAmount string              `json:"refundAmount"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func newReturnResponse(r models.Return) returnResponse {
	return returnResponse{
		ID:           r.ID,
		OrderID:      r.OrderID,
		UserID:       r.UserID,
		Reason:       r.Reason,
		Status:       r.Status,
		RefundCents:  r.RefundCents,
		RefundAmount: service.FormatAmount(r.RefundCents),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newReturnResponses(returns []models.Return) []returnResponse {
	out := make([]returnResponse, 0, len(returns))
	for _, r := range returns {
		out = append(out, newReturnResponse(r))
	}
	return out
}

type returnRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

func (h HandlerSet) RequestReturn(c *gin.Context) {
	var req returnRequest
	if !bindJSON(c, &req) {
		return
	}

	ret, err := h.returns.Request(c.Request.Context(), currentUser(c).ID, req.OrderID, req.Reason)
	if err != nil {
		h.fail(c, err, "Failed to request return")
		return
	}
	respond(c, http.StatusCreated, "Return requested successfully", newReturnResponse(ret))
}

func (h HandlerSet) ListMyReturns(c *gin.Context) {
	returns, err := h.returns.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "Failed to fetch returns")
		return
	}
	respond(c, http.StatusOK, "", newReturnResponses(returns))
}

func (h HandlerSet) AdminListReturns(c *gin.Context) {
	limit, offset := pagination(c, 50)
	returns, err := h.returns.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.fail(c, err, "Failed to fetch returns")
		return
	}
	respond(c, http.StatusOK, "", newReturnResponses(returns))
}

type returnUpdateRequest struct {
	Status      string `json:"status" binding:"required"`
	RefundCents int64  `json:"refundCents"`
}

func (h HandlerSet) AdminUpdateReturn(c *gin.Context) {
	var req returnUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	ret, err := h.returns.Update(c.Request.Context(), c.Param("id"), models.ReturnStatus(req.Status), req.RefundCents)
	if err != nil {
		h.fail(c, err, "Failed to update return")
		return
	}
	respond(c, http.StatusOK, "Return updated successfully", newReturnResponse(ret))
}
