package repository

import (
	"context"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

type WishlistRepository struct {
	db database.DB
}

func NewWishlistRepository(db database.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add is idempotent: adding an existing entry keeps the original timestamp.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) error {
	const query = `
		INSERT INTO wishlist_entries (user_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, productID)
	if pgErrorIs(err, pgForeignKeyViolation, "") {
		return ErrProductNotFound
	}
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM wishlist_entries WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	const query = `
		SELECT w.user_id, w.created_at,
		       p.id, p.category_id, p.name, p.slug, p.description, p.price_cents, p.stock,
		       p.image_url, p.active, p.created_at, p.updated_at
		FROM wishlist_entries w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.WishlistEntry{}
	for rows.Next() {
		var (
			entry   models.WishlistEntry
			product models.Product
		)
		if err := rows.Scan(
			&entry.UserID, &entry.CreatedAt,
			&product.ID, &product.CategoryID, &product.Name, &product.Slug, &product.Description,
			&product.PriceCents, &product.Stock, &product.ImageURL, &product.Active,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entry.ProductID = product.ID
		entry.Product = &product
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
