package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shopfront/internal/database"
	"shopfront/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = `id, user_id, status, total_cents, shipping_address_id, created_at, updated_at`

type OrderRepository struct {
	db database.DB
}

func NewOrderRepository(db database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row rowScanner) (models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalCents,
		&order.ShippingAddressID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// Create inserts the order header and its lines using db, which is expected
// to be the checkout transaction.
func (r *OrderRepository) Create(ctx context.Context, db database.DB, order models.Order) (models.Order, error) {
	query := `
		INSERT INTO orders (id, user_id, status, total_cents, shipping_address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + orderColumns

	created, err := scanOrder(db.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.Status,
		order.TotalCents,
		order.ShippingAddressID,
	))
	if err != nil {
		return models.Order{}, err
	}

	const itemQuery = `
		INSERT INTO order_items (order_id, product_id, name, price_cents, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range order.Items {
		if _, err := db.Exec(ctx, itemQuery, created.ID, item.ProductID, item.Name, item.PriceCents, item.Quantity); err != nil {
			return models.Order{}, err
		}
	}
	created.Items = order.Items
	return created, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.Order{}, err
	}
	order.Items, err = r.items(ctx, id)
	return order, err
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	const query = `
		SELECT product_id, name, price_cents, quantity
		FROM order_items WHERE order_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.PriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *OrderRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, status, limit, offset)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, id, status))
}

// Totals returns the number of orders and the revenue of non-cancelled ones.
func (r *OrderRepository) Totals(ctx context.Context) (int, int64, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(total_cents) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders
	`
	var (
		count   int
		revenue int64
	)
	err := r.db.QueryRow(ctx, query).Scan(&count, &revenue)
	return count, revenue, err
}
