package repository

import (
	"context"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

type RewardRepository struct {
	db database.DB
}

func NewRewardRepository(db database.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// Award records points for an order once; a replayed event for the same
// order is ignored and reported as false.
func (r *RewardRepository) Award(ctx context.Context, entry models.RewardEntry) (bool, error) {
	const query = `
		INSERT INTO reward_entries (id, user_id, order_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (order_id) DO NOTHING
	`
	cmd, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.OrderID, entry.Points, entry.Reason)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *RewardRepository) ListByUser(ctx context.Context, userID string) ([]models.RewardEntry, int, error) {
	const query = `
		SELECT id, user_id, order_id, points, reason, created_at
		FROM reward_entries WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var balance int
	entries := []models.RewardEntry{}
	for rows.Next() {
		var e models.RewardEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderID, &e.Points, &e.Reason, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		balance += e.Points
		entries = append(entries, e)
	}
	return entries, balance, rows.Err()
}
