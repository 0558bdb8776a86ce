package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var ErrAddressNotFound = errors.New("address not found")

const addressColumns = `id, user_id, line1, line2, city, postal_code, country, is_default, created_at, updated_at`

type AddressRepository struct {
	db database.DB
}

func NewAddressRepository(db database.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func scanAddress(row rowScanner) (models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Address{}, ErrAddressNotFound
	}
	return a, err
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *AddressRepository) Get(ctx context.Context, userID, id string) (models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`
	return scanAddress(r.db.QueryRow(ctx, query, id, userID))
}

// Save inserts or fully replaces an address owned by the user. Marking an
// address as default clears the flag on the user's other addresses.
func (r *AddressRepository) Save(ctx context.Context, a models.Address) (models.Address, error) {
	var saved models.Address
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if a.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND id <> $2`, a.UserID, a.ID); err != nil {
				return err
			}
		}
		query := `
			INSERT INTO addresses (id, user_id, line1, line2, city, postal_code, country, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			ON CONFLICT (id) DO UPDATE SET
				line1 = EXCLUDED.line1,
				line2 = EXCLUDED.line2,
				city = EXCLUDED.city,
				postal_code = EXCLUDED.postal_code,
				country = EXCLUDED.country,
				is_default = EXCLUDED.is_default,
				updated_at = NOW()
			WHERE addresses.user_id = EXCLUDED.user_id
			RETURNING ` + addressColumns
		var err error
		saved, err = scanAddress(tx.QueryRow(ctx, query,
			a.ID, a.UserID, a.Line1, a.Line2, a.City, a.PostalCode, a.Country, a.IsDefault,
		))
		return err
	})
	return saved, err
}

func (r *AddressRepository) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}
