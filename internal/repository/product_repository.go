package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductSlugTaken  = errors.New("product slug already exists")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	productSlugConstraint = "products_slug_key"
	productColumns        = `id, category_id, name, slug, description, price_cents, stock, image_url, active, created_at, updated_at`
)

type ProductRepository struct {
	db database.DB
}

func NewProductRepository(db database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row rowScanner) (models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.PriceCents,
		&product.Stock,
		&product.ImageURL,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}

func collectProducts(rows pgx.Rows, err error) ([]models.Product, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func mapProductWriteError(err error) error {
	switch {
	case pgErrorIs(err, pgUniqueViolation, productSlugConstraint):
		return ErrProductSlugTaken
	case pgErrorIs(err, pgForeignKeyViolation, productCategoryConstraint):
		return ErrUnknownCategory
	}
	return err
}

func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.ActiveOnly {
		where = append(where, "p.active")
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	query := `
		SELECT p.id, p.category_id, p.name, p.slug, p.description, p.price_cents, p.stock,
		       p.image_url, p.active, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf("\n\t\tORDER BY p.created_at DESC\n\t\tLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return collectProducts(r.db.Query(ctx, query, args...))
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *ProductRepository) Create(ctx context.Context, product models.Product) (models.Product, error) {
	query := `
		INSERT INTO products (
			id, category_id, name, slug, description, price_cents, stock, image_url, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
		RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRow(ctx, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.ImageURL,
		product.Active,
	))
	if err != nil {
		return models.Product{}, mapProductWriteError(err)
	}
	return created, nil
}

// Update replaces every editable column; image_url is managed by SetImage.
func (r *ProductRepository) Update(ctx context.Context, product models.Product) (models.Product, error) {
	query := `
		UPDATE products
		SET category_id = $2, name = $3, slug = $4, description = $5,
		    price_cents = $6, stock = $7, active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRow(ctx, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.Active,
	))
	if err != nil {
		return models.Product{}, mapProductWriteError(err)
	}
	return updated, nil
}

func (r *ProductRepository) SetImage(ctx context.Context, id string, url string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE products SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetStock(ctx context.Context, id string, stock int) (models.Product, error) {
	query := `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, id, stock))
}

// AdjustStock applies delta to the stock of a product. A decrement that
// would go below zero affects no row and yields ErrInsufficientStock.
func (r *ProductRepository) AdjustStock(ctx context.Context, db database.DB, id string, delta int) error {
	const query = `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
	`
	cmd, err := db.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
		if _, err := scanProduct(db.QueryRow(ctx, query, id)); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active AND stock < $1 ORDER BY stock ASC, name ASC`
	return collectProducts(r.db.Query(ctx, query, threshold))
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
