package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dipendrakshah/sportshopping-backend/internal/utils"
)

// ErrInsufficientStock is returned by Reserve when the requested quantity
// exceeds what is available. No stock is touched in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepository is the ledger over the product stock column. Reserve
// and Release are the only writers of that column; both take a Querier so the
// order engine can run them inside its transaction.
type InventoryRepository interface {
	Reserve(ctx context.Context, q Querier, productID int64, quantity int) error
	Release(ctx context.Context, q Querier, productID int64, quantity int) error
	GetStock(ctx context.Context, q Querier, productID int64) (int, error)
}

type inventoryRepository struct{}

func NewInventoryRepo() InventoryRepository {
	return &inventoryRepository{}
}

// Reserve decrements stock atomically. The stock check and the decrement are
// one conditional UPDATE, so two concurrent reservations for the last unit
// can never both succeed: the row lock serializes them and the loser matches
// zero rows.
func (r *inventoryRepository) Reserve(ctx context.Context, q Querier, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if quantity < 1 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1
	`

	result, err := q.ExecContext(dbCtx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrInsufficientStock)
	}

	return nil
}

// Release returns a previously reserved quantity to stock. It reverses
// recorded order item quantities only, so the increment cannot overflow a
// valid ledger.
func (r *inventoryRepository) Release(ctx context.Context, q Querier, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if quantity < 1 {
		return fmt.Errorf("release quantity must be positive, got %d", quantity)
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := q.ExecContext(dbCtx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("product %d not found", productID)
	}

	return nil
}

func (r *inventoryRepository) GetStock(ctx context.Context, q Querier, productID int64) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var stock int

	query := `SELECT stock_quantity FROM products WHERE id = $1`

	if err := q.QueryRowContext(dbCtx, query, productID).Scan(&stock); err != nil {
		return 0, fmt.Errorf("failed to get stock: %w", err)
	}

	return stock, nil
}
