package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var ErrPurchaseOrderNotFound = errors.New("purchase order not found")

const purchaseOrderColumns = `id, supplier, status, created_by, created_at, updated_at`

type PurchaseOrderRepository struct {
	db database.DB
}

func NewPurchaseOrderRepository(db database.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func scanPurchaseOrder(row rowScanner) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := row.Scan(&po.ID, &po.Supplier, &po.Status, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PurchaseOrder{}, ErrPurchaseOrderNotFound
	}
	return po, err
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, db database.DB, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	query := `
		INSERT INTO purchase_orders (id, supplier, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + purchaseOrderColumns

	created, err := scanPurchaseOrder(db.QueryRow(ctx, query, po.ID, po.Supplier, po.Status, po.CreatedBy))
	if err != nil {
		return models.PurchaseOrder{}, err
	}

	const itemQuery = `
		INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, unit_cost_cents)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range po.Items {
		if _, err := db.Exec(ctx, itemQuery, created.ID, item.ProductID, item.Quantity, item.UnitCostCents); err != nil {
			if pgErrorIs(err, pgForeignKeyViolation, "") {
				return models.PurchaseOrder{}, ErrProductNotFound
			}
			return models.PurchaseOrder{}, err
		}
	}
	created.Items = po.Items
	return created, nil
}

// GetByID loads a purchase order through db so receive can lock it with FOR UPDATE.
func (r *PurchaseOrderRepository) GetByID(ctx context.Context, db database.DB, id string, forUpdate bool) (models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	po, err := scanPurchaseOrder(db.QueryRow(ctx, query, id))
	if err != nil {
		return models.PurchaseOrder{}, err
	}

	rows, err := db.Query(ctx, `
		SELECT product_id, quantity, unit_cost_cents
		FROM purchase_order_items WHERE purchase_order_id = $1
		ORDER BY product_id
	`, id)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	defer rows.Close()

	po.Items = []models.PurchaseOrderItem{}
	for rows.Next() {
		var item models.PurchaseOrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitCostCents); err != nil {
			return models.PurchaseOrder{}, err
		}
		po.Items = append(po.Items, item)
	}
	return po, rows.Err()
}

func (r *PurchaseOrderRepository) List(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, db database.DB, id string, status models.PurchaseOrderStatus) error {
	cmd, err := db.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPurchaseOrderNotFound
	}
	return nil
}
