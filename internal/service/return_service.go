package service

import (
	"context"
	"errors"
	"strings"

	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type ReturnStore interface {
	Create(ctx context.Context, ret models.Return) (models.Return, error)
	GetByID(ctx context.Context, id string) (models.Return, error)
	ListByUser(ctx context.Context, userID string) ([]models.Return, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Return, error)
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	Update(ctx context.Context, id string, status models.ReturnStatus, refundCents int64) (models.Return, error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id string) (models.Order, error)
}

type ReturnService struct {
	returns ReturnStore
	orders  OrderReader
}

func NewReturnService(returns ReturnStore, orders OrderReader) *ReturnService {
	return &ReturnService{returns: returns, orders: orders}
}

// Request opens a return for a shipped or delivered order of the caller.
func (s *ReturnService) Request(ctx context.Context, userID, orderID, reason string) (models.Return, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Return{}, validation("Return reason is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return models.Return{}, notFound("Order not found")
		}
		return models.Return{}, err
	}
	if order.UserID != userID {
		return models.Return{}, notFound("Order not found")
	}
	if order.Status != models.OrderStatusShipped && order.Status != models.OrderStatusDelivered {
		return models.Return{}, validation("Only shipped or delivered orders can be returned")
	}

	exists, err := s.returns.ExistsForOrder(ctx, orderID)
	if err != nil {
		return models.Return{}, err
	}
	if exists {
		return models.Return{}, conflict("A return already exists for this order")
	}

	return s.returns.Create(ctx, models.Return{
		ID:      ids.New(),
		OrderID: orderID,
		UserID:  userID,
		Reason:  reason,
		Status:  models.ReturnRequested,
	})
}

func (s *ReturnService) ListMine(ctx context.Context, userID string) ([]models.Return, error) {
	return s.returns.ListByUser(ctx, userID)
}

func (s *ReturnService) List(ctx context.Context, status string, limit, offset int) ([]models.Return, error) {
	if status != "" && !models.ReturnStatus(status).Valid() {
		return nil, validation("Unknown return status %q", status)
	}
	return s.returns.List(ctx, status, limit, offset)
}

// Update sets status and refund amount; a refund cannot exceed the order total.
func (s *ReturnService) Update(ctx context.Context, id string, status models.ReturnStatus, refundCents int64) (models.Return, error) {
	if !status.Valid() {
		return models.Return{}, validation("Unknown return status %q", status)
	}
	if refundCents < 0 {
		return models.Return{}, validation("Refund cannot be negative")
	}

	ret, err := s.returns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReturnNotFound) {
			return models.Return{}, notFound("Return not found")
		}
		return models.Return{}, err
	}
	order, err := s.orders.GetByID(ctx, ret.OrderID)
	if err != nil {
		return models.Return{}, err
	}
	if refundCents > order.TotalCents {
		return models.Return{}, validation("Refund %s exceeds order total %s", FormatAmount(refundCents), FormatAmount(order.TotalCents))
	}

	updated, err := s.returns.Update(ctx, id, status, refundCents)
	if errors.Is(err, repository.ErrReturnNotFound) {
		return models.Return{}, notFound("Return not found")
	}
	return updated, err
}
