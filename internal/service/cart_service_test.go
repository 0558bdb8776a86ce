package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cache"
	"shopfront/internal/models"
)

func TestCartAddRespectsStock(t *testing.T) {
	products := newFakeProducts(
		models.Product{ID: "p1", Name: "Toner", PriceCents: 1200, Stock: 3, Active: true},
		models.Product{ID: "p2", Name: "Retired", PriceCents: 900, Stock: 9, Active: false},
	)
	svc := NewCartService(newFakeCarts(), products)
	owner := cache.GuestCart("sid-1")
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, owner, "p1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2400), cart.TotalCents)

	_, err = svc.AddItem(ctx, owner, "p1", 2)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Only 3 in stock", err.Error())

	cart, err = svc.AddItem(ctx, owner, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	_, err = svc.AddItem(ctx, owner, "p2", 1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddItem(ctx, owner, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AddItem(ctx, owner, "p1", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartSetQuantity(t *testing.T) {
	products := newFakeProducts(models.Product{ID: "p1", Name: "Toner", PriceCents: 1200, Stock: 5, Active: true})
	svc := NewCartService(newFakeCarts(), products)
	owner := cache.UserCart("u1")
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, owner, "p1", 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddItem(ctx, owner, "p1", 1)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(ctx, owner, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = svc.SetQuantity(ctx, owner, "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.RemoveItem(ctx, owner, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}
