package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cache"
	"shopfront/internal/models"
	"shopfront/internal/queue"
)

type checkoutFixture struct {
	products *fakeProducts
	carts    *fakeCarts
	orders   *fakeOrders
	events   *fakePublisher
	svc      *OrderService
}

func newCheckoutFixture() checkoutFixture {
	products := newFakeProducts(
		models.Product{ID: "p1", Name: "Toner", PriceCents: 1200, Stock: 5, Active: true},
		models.Product{ID: "p2", Name: "Serum", PriceCents: 3050, Stock: 1, Active: true},
	)
	carts := newFakeCarts()
	orders := newFakeOrders()
	events := &fakePublisher{}
	addresses := fakeAddresses{rows: map[string]models.Address{
		"a1": {ID: "a1", UserID: "u1"},
		"a2": {ID: "a2", UserID: "someone-else"},
	}}
	svc := NewOrderService(&fakeTx{products: products}, orders, products, carts, addresses, events, zerolog.Nop())
	return checkoutFixture{products, carts, orders, events, svc}
}

func TestCheckout(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	owner := cache.UserCart("u1")
	require.NoError(t, f.carts.Put(ctx, owner, models.CartItem{ProductID: "p1", Name: "Toner", PriceCents: 1200, Quantity: 2}))
	require.NoError(t, f.carts.Put(ctx, owner, models.CartItem{ProductID: "p2", Name: "Serum", PriceCents: 3050, Quantity: 1}))

	address := "a1"
	order, err := f.svc.Checkout(ctx, "u1", &address)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(5450), order.TotalCents)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 3, f.products.rows["p1"].Stock)
	assert.Equal(t, 0, f.products.rows["p2"].Stock)

	cart, err := f.carts.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, queue.EventOrderPlaced, f.events.events[0].eventType)
	assert.Equal(t, order.ID, f.events.events[0].fields["orderId"])
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	owner := cache.UserCart("u1")
	require.NoError(t, f.carts.Put(ctx, owner, models.CartItem{ProductID: "p1", Name: "Toner", PriceCents: 1200, Quantity: 1}))
	require.NoError(t, f.carts.Put(ctx, owner, models.CartItem{ProductID: "p2", Name: "Serum", PriceCents: 3050, Quantity: 2}))

	_, err := f.svc.Checkout(ctx, "u1", nil)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Insufficient stock for Serum", err.Error())

	assert.Equal(t, 5, f.products.rows["p1"].Stock)
	assert.Empty(t, f.orders.rows)
	assert.Empty(t, f.events.events)

	cart, err := f.carts.Get(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCheckoutValidation(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, "u1", nil)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Cart is empty", err.Error())

	require.NoError(t, f.carts.Put(ctx, cache.UserCart("u1"), models.CartItem{ProductID: "p1", Name: "Toner", PriceCents: 1200, Quantity: 1}))
	foreign := "a2"
	_, err = f.svc.Checkout(ctx, "u1", &foreign)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderVisibility(t *testing.T) {
	orders := newFakeOrders(models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusPending})
	svc := NewOrderService(&fakeTx{}, orders, newFakeProducts(), newFakeCarts(), fakeAddresses{}, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Get(ctx, models.User{ID: "u1", Role: models.UserRoleCustomer}, "o1")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, models.User{ID: "u2", Role: models.UserRoleCustomer}, "o1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, models.User{ID: "s1", Role: models.UserRoleStaff}, "o1")
	assert.NoError(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	orders := newFakeOrders(models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusPending})
	svc := NewOrderService(&fakeTx{}, orders, newFakeProducts(), newFakeCarts(), fakeAddresses{}, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "o1", "lost")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateStatus(ctx, "o1", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	_, err = svc.UpdateStatus(ctx, "o1", models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateStatus(ctx, "missing", models.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrNotFound)
}
