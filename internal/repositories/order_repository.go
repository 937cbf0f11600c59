package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils"
	"github.com/google/uuid"
)

// ErrOrderNotPending is returned when a status transition finds the order no
// longer in the pending state.
var ErrOrderNotPending = errors.New("order is not pending")

type OrderRepository interface {
	Create(ctx context.Context, q Querier, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	TransitionFromPending(ctx context.Context, q Querier, id int64, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// Create inserts the order and its items. It takes a Querier because order
// creation only ever happens inside the placement transaction.
func (r *orderRepository) Create(ctx context.Context, q Querier, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO orders (user_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(dbCtx, query, order.UserID, order.Status, order.TotalAmount).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err := q.QueryRowContext(dbCtx, itemQuery, order.ID, item.ProductID, item.Quantity, item.UnitPrice).
			Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOrder(ctx, `SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1`, id)
}

// GetByIDForUser scopes the lookup to the owning user, so a foreign order id
// reads as not found rather than forbidden.
func (r *orderRepository) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	return r.getOrder(ctx, `SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *orderRepository) getOrder(ctx context.Context, query string, args ...any) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := r.DB.QueryRowContext(dbCtx, query, args...).
		Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.getOrderItems(dbCtx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {

	query := `
		SELECT id, order_id, product_id, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order

		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.getOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

// TransitionFromPending moves a pending order into a terminal status. The
// guard lives in the UPDATE itself, so under concurrent cancel and refund the
// row lock serializes the two and the loser sees zero rows. Zero rows maps to
// ErrOrderNotPending and rolls back whatever the caller did in the same
// transaction.
func (r *orderRepository) TransitionFromPending(ctx context.Context, q Querier, id int64, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := q.ExecContext(dbCtx, query, status, id, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrOrderNotPending
	}

	return nil
}
