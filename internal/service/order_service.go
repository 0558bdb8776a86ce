package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"shopfront/internal/cache"
	"shopfront/internal/database"
	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/queue"
	"shopfront/internal/repository"
)

type OrderStore interface {
	Create(ctx context.Context, db database.DB, order models.Order) (models.Order, error)
	GetByID(ctx context.Context, id string) (models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}

type StockAdjuster interface {
	AdjustStock(ctx context.Context, db database.DB, id string, delta int) error
}

type AddressLookup interface {
	Get(ctx context.Context, userID, id string) (models.Address, error)
}

type OrderService struct {
	tx        database.Transactor
	orders    OrderStore
	stock     StockAdjuster
	carts     CartStore
	addresses AddressLookup
	events    EventPublisher
	log       zerolog.Logger
}

func NewOrderService(
	tx database.Transactor,
	orders OrderStore,
	stock StockAdjuster,
	carts CartStore,
	addresses AddressLookup,
	events EventPublisher,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		tx:        tx,
		orders:    orders,
		stock:     stock,
		carts:     carts,
		addresses: addresses,
		events:    events,
		log:       log,
	}
}

// Checkout turns the user's cart into a pending order. Stock is decremented
// and the order written in one transaction; the cart is cleared afterwards.
func (s *OrderService) Checkout(ctx context.Context, userID string, shippingAddressID *string) (models.Order, error) {
	owner := cache.UserCart(userID)
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, validation("Cart is empty")
	}

	if shippingAddressID != nil && *shippingAddressID != "" {
		if _, err := s.addresses.Get(ctx, userID, *shippingAddressID); err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return models.Order{}, validation("Shipping address not found")
			}
			return models.Order{}, err
		}
	} else {
		shippingAddressID = nil
	}

	order := models.Order{
		ID:                ids.New(),
		UserID:            userID,
		Status:            models.OrderStatusPending,
		ShippingAddressID: shippingAddressID,
		Items:             make([]models.OrderItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
		order.TotalCents += item.PriceCents * int64(item.Quantity)
	}

	var created models.Order
	err = s.tx.InTx(ctx, func(tx database.DB) error {
		for _, item := range order.Items {
			if err := s.stock.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				switch {
				case errors.Is(err, repository.ErrInsufficientStock):
					return conflict("Insufficient stock for %s", item.Name)
				case errors.Is(err, repository.ErrProductNotFound):
					return conflict("%s is no longer available", item.Name)
				}
				return err
			}
		}
		var err error
		created, err = s.orders.Create(ctx, tx, order)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		s.log.Warn().Err(err).Str("order_id", created.ID).Msg("clear cart after checkout failed")
	}
	if s.events != nil {
		err := s.events.Publish(ctx, queue.EventOrderPlaced, map[string]any{
			"orderId":    created.ID,
			"userId":     created.UserID,
			"totalCents": created.TotalCents,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("order_id", created.ID).Msg("publish order.placed failed")
		}
	}
	return created, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns an order visible to the caller; other customers' orders read
// as missing.
func (s *OrderService) Get(ctx context.Context, caller models.User, id string) (models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return models.Order{}, notFound("Order not found")
		}
		return models.Order{}, err
	}
	if order.UserID != caller.ID && caller.Role == models.UserRoleCustomer {
		return models.Order{}, notFound("Order not found")
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, validation("Unknown order status %q", status)
	}
	return s.orders.List(ctx, status, limit, offset)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, validation("Unknown order status %q", status)
	}
	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return models.Order{}, notFound("Order not found")
		}
		return models.Order{}, err
	}
	if current.Status == models.OrderStatusCancelled || current.Status == models.OrderStatusDelivered {
		return models.Order{}, conflict("Order is already %s", current.Status)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return models.Order{}, notFound("Order not found")
	}
	return updated, err
}
