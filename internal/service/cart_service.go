package service

import (
	"context"
	"errors"

	"shopfront/internal/cache"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type CartStore interface {
	Get(ctx context.Context, owner cache.CartOwner) (models.Cart, error)
	Item(ctx context.Context, owner cache.CartOwner, productID string) (models.CartItem, bool, error)
	Put(ctx context.Context, owner cache.CartOwner, item models.CartItem) error
	Remove(ctx context.Context, owner cache.CartOwner, productID string) (bool, error)
	Clear(ctx context.Context, owner cache.CartOwner) error
}

type ProductReader interface {
	GetByID(ctx context.Context, id string) (models.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductReader
}

func NewCartService(carts CartStore, products ProductReader) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, owner cache.CartOwner) (models.Cart, error) {
	return s.carts.Get(ctx, owner)
}

// AddItem adds quantity units of a product to the cart.
func (s *CartService) AddItem(ctx context.Context, owner cache.CartOwner, productID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return models.Cart{}, validation("Quantity must be at least 1")
	}
	existing, ok, err := s.carts.Item(ctx, owner, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if ok {
		quantity += existing.Quantity
	}
	return s.put(ctx, owner, productID, quantity)
}

// SetQuantity replaces the quantity of a line; zero removes it.
func (s *CartService) SetQuantity(ctx context.Context, owner cache.CartOwner, productID string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return models.Cart{}, validation("Quantity cannot be negative")
	}
	_, ok, err := s.carts.Item(ctx, owner, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if !ok {
		return models.Cart{}, notFound("Item not in cart")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, owner, productID)
	}
	return s.put(ctx, owner, productID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, owner cache.CartOwner, productID string) (models.Cart, error) {
	removed, err := s.carts.Remove(ctx, owner, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if !removed {
		return models.Cart{}, notFound("Item not in cart")
	}
	return s.carts.Get(ctx, owner)
}

func (s *CartService) Clear(ctx context.Context, owner cache.CartOwner) error {
	return s.carts.Clear(ctx, owner)
}

func (s *CartService) put(ctx context.Context, owner cache.CartOwner, productID string, quantity int) (models.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return models.Cart{}, notFound("Product not found")
		}
		return models.Cart{}, err
	}
	if !product.Active {
		return models.Cart{}, validation("Product is not available")
	}
	if quantity > product.Stock {
		return models.Cart{}, conflict("Only %d in stock", product.Stock)
	}

	item := models.CartItem{
		ProductID:  product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Quantity:   quantity,
	}
	if err := s.carts.Put(ctx, owner, item); err != nil {
		return models.Cart{}, err
	}
	return s.carts.Get(ctx, owner)
}
