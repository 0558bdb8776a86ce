package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSlugTaken is returned when the insert guard on categories.slug rejects a row.
	ErrSlugTaken = errors.New("category slug already exists")
	// ErrCategoryInUse is returned when products still reference the category.
	ErrCategoryInUse = errors.New("category referenced by products")
)

const (
	categorySlugConstraint    = "categories_slug_key"
	productCategoryConstraint = "products_category_id_fkey"
)

type CategoryRepository struct {
	db database.DB
}

func NewCategoryRepository(db database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return category, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	const query = `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	const query = `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories WHERE id = $1
	`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) (models.Category, error) {
	const query = `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, name, slug, description, created_at, updated_at
	`
	created, err := scanCategory(r.db.QueryRow(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
	))
	if pgErrorIs(err, pgUniqueViolation, categorySlugConstraint) {
		return models.Category{}, ErrSlugTaken
	}
	return created, err
}

// Update overwrites name, slug and description of an existing row. The
// slug guard fires on INSERT only, so an update may share a slug.
func (r *CategoryRepository) Update(ctx context.Context, category models.Category) (models.Category, error) {
	const query = `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, slug, description, created_at, updated_at
	`
	return scanCategory(r.db.QueryRow(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
	))
}

func (r *CategoryRepository) CountProducts(ctx context.Context, id string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	return count, err
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgErrorIs(err, pgForeignKeyViolation, productCategoryConstraint) {
			return ErrCategoryInUse
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
