package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository struct {
	db database.DB
}

func NewReviewRepository(db database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	const query = `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, review.ID, review.ProductID, review.UserID, review.Rating, review.Comment).
		Scan(&review.CreatedAt)
	if pgErrorIs(err, pgForeignKeyViolation, "") {
		return models.Review{}, ErrProductNotFound
	}
	return review, err
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (models.Review, error) {
	const query = `
		SELECT rv.id, rv.product_id, rv.user_id, TRIM(u.first_name || ' ' || u.last_name), rv.rating, rv.comment, rv.created_at
		FROM reviews rv JOIN users u ON u.id = rv.user_id
		WHERE rv.id = $1
	`
	var review models.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID, &review.ProductID, &review.UserID, &review.Author, &review.Rating, &review.Comment, &review.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Review{}, ErrReviewNotFound
	}
	return review, err
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	const query = `
		SELECT rv.id, rv.product_id, rv.user_id, TRIM(u.first_name || ' ' || u.last_name), rv.rating, rv.comment, rv.created_at
		FROM reviews rv JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID, &review.ProductID, &review.UserID, &review.Author, &review.Rating, &review.Comment, &review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}
