package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

const msgSlugExists = "Category with this slug already exists"

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, category models.Category) (models.Category, error)
	Update(ctx context.Context, category models.Category) (models.Category, error)
	CountProducts(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type CategoryCache interface {
	Get(ctx context.Context) ([]models.Category, bool, error)
	Set(ctx context.Context, categories []models.Category) error
	Invalidate(ctx context.Context) error
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description *string
}

type CategoryService struct {
	categories CategoryStore
	cache      CategoryCache
	log        zerolog.Logger
}

// NewCategoryService wires the store with an optional cache; a nil cache
// sends every list to the store.
func NewCategoryService(categories CategoryStore, cache CategoryCache, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, cache: cache, log: log}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("category cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func normalizeCategory(input CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Category{}, validation("Category name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return models.Category{}, validation("Category slug cannot be empty")
	}

	var description *string
	if input.Description != nil {
		if d := strings.TrimSpace(*input.Description); d != "" {
			description = &d
		}
	}

	return models.Category{Name: name, Slug: slug, Description: description}, nil
}

// Create rejects a slug already in use. The lookup is only a fast path: the
// insert trigger on categories.slug decides concurrent creates.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (models.Category, error) {
	category, err := normalizeCategory(input)
	if err != nil {
		return models.Category{}, err
	}

	exists, err := s.categories.SlugExists(ctx, category.Slug)
	if err != nil {
		return models.Category{}, err
	}
	if exists {
		return models.Category{}, conflict(msgSlugExists)
	}

	category.ID = ids.New()
	created, err := s.categories.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return models.Category{}, conflict(msgSlugExists)
		}
		return models.Category{}, err
	}

	s.invalidate(ctx)
	return created, nil
}

// Update overwrites name, slug and description without any slug check, so
// it can introduce a slug that Create would refuse.
func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (models.Category, error) {
	category, err := normalizeCategory(input)
	if err != nil {
		return models.Category{}, err
	}
	category.ID = id

	updated, err := s.categories.Update(ctx, category)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return models.Category{}, notFound("Category not found")
	case err != nil:
		return models.Category{}, err
	}

	s.invalidate(ctx)
	return updated, nil
}

// Delete answers 404 for an unknown id before looking at products.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return notFound("Category not found")
		}
		return err
	}

	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return inUse(count)
	}

	err = s.categories.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return notFound("Category not found")
	case errors.Is(err, repository.ErrCategoryInUse):
		// a product was assigned between the count and the delete
		count, cerr := s.categories.CountProducts(ctx, id)
		if cerr != nil || count == 0 {
			count = 1
		}
		return inUse(count)
	case err != nil:
		return err
	}

	s.invalidate(ctx)
	return nil
}

func inUse(count int) error {
	return conflict("Cannot delete category. %d product(s) are using this category.", count)
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidate failed")
	}
}
