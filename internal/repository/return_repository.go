package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var ErrReturnNotFound = errors.New("return not found")

const returnColumns = `id, order_id, user_id, reason, status, refund_cents, created_at, updated_at`

type ReturnRepository struct {
	db database.DB
}

func NewReturnRepository(db database.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

func scanReturn(row rowScanner) (models.Return, error) {
	var ret models.Return
	err := row.Scan(
		&ret.ID,
		&ret.OrderID,
		&ret.UserID,
		&ret.Reason,
		&ret.Status,
		&ret.RefundCents,
		&ret.CreatedAt,
		&ret.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Return{}, ErrReturnNotFound
	}
	return ret, err
}

func (r *ReturnRepository) Create(ctx context.Context, ret models.Return) (models.Return, error) {
	query := `
		INSERT INTO returns (id, order_id, user_id, reason, status, refund_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + returnColumns
	return scanReturn(r.db.QueryRow(ctx, query, ret.ID, ret.OrderID, ret.UserID, ret.Reason, ret.Status, ret.RefundCents))
}

func (r *ReturnRepository) GetByID(ctx context.Context, id string) (models.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	return scanReturn(r.db.QueryRow(ctx, query, id))
}

func (r *ReturnRepository) list(ctx context.Context, query string, args ...any) ([]models.Return, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	returns := []models.Return{}
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

func (r *ReturnRepository) ListByUser(ctx context.Context, userID string) ([]models.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *ReturnRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Return, error) {
	query := `
		SELECT ` + returnColumns + `
		FROM returns
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, status, limit, offset)
}

func (r *ReturnRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM returns WHERE order_id = $1 AND status <> 'rejected')`, orderID).Scan(&exists)
	return exists, err
}

// Update replaces status and refund amount.
func (r *ReturnRepository) Update(ctx context.Context, id string, status models.ReturnStatus, refundCents int64) (models.Return, error) {
	query := `
		UPDATE returns SET status = $2, refund_cents = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + returnColumns
	return scanReturn(r.db.QueryRow(ctx, query, id, status, refundCents))
}

func (r *ReturnRepository) CountByStatus(ctx context.Context, status models.ReturnStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM returns WHERE status = $1`, status).Scan(&count)
	return count, err
}
