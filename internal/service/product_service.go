package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/queue"
	"shopfront/internal/repository"
)

type ProductStore interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	SetStock(ctx context.Context, id string, stock int) (models.Product, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductInput struct {
	CategoryID  *string
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	Stock       int
	Active      *bool
}

type ProductService struct {
	products  ProductStore
	events    EventPublisher
	threshold int
	log       zerolog.Logger
}

func NewProductService(products ProductStore, events EventPublisher, lowStockThreshold int, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, events: events, threshold: lowStockThreshold, log: log}
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.products.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return models.Product{}, notFound("Product not found")
	}
	return product, err
}

func normalizeProduct(input ProductInput) (models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Product{}, validation("Product name is required")
	}
	if input.PriceCents < 0 {
		return models.Product{}, validation("Price cannot be negative")
	}
	if input.Stock < 0 {
		return models.Product{}, validation("Stock cannot be negative")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return models.Product{}, validation("Product slug cannot be empty")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	categoryID := input.CategoryID
	if categoryID != nil && strings.TrimSpace(*categoryID) == "" {
		categoryID = nil
	}

	return models.Product{
		CategoryID:  categoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Active:      active,
	}, nil
}

func mapProductError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return notFound("Product not found")
	case errors.Is(err, repository.ErrProductSlugTaken):
		return conflict("Product with this slug already exists")
	case errors.Is(err, repository.ErrUnknownCategory):
		return validation("Category does not exist")
	}
	return err
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (models.Product, error) {
	product, err := normalizeProduct(input)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = ids.New()

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return models.Product{}, mapProductError(err)
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (models.Product, error) {
	product, err := normalizeProduct(input)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = id

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return models.Product{}, mapProductError(err)
	}
	s.checkLowStock(ctx, updated)
	return updated, nil
}

// Delete refuses products that still have units on hand.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return mapProductError(err)
	}
	if product.Stock > 0 {
		return conflict("Cannot delete product with stock remaining")
	}
	return mapProductError(s.products.Delete(ctx, id))
}

func (s *ProductService) SetStock(ctx context.Context, id string, stock int) (models.Product, error) {
	if stock < 0 {
		return models.Product{}, validation("Stock cannot be negative")
	}
	product, err := s.products.SetStock(ctx, id, stock)
	if err != nil {
		return models.Product{}, mapProductError(err)
	}
	s.checkLowStock(ctx, product)
	return product, nil
}

func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.products.LowStock(ctx, s.threshold)
}

func (s *ProductService) checkLowStock(ctx context.Context, product models.Product) {
	if s.events == nil || !product.Active || product.Stock >= s.threshold {
		return
	}
	err := s.events.Publish(ctx, queue.EventStockLow, map[string]any{
		"productId": product.ID,
		"name":      product.Name,
		"stock":     product.Stock,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", product.ID).Msg("publish stock.low failed")
	}
}
