package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetViewByUserID(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
	GetItemsWithProducts(ctx context.Context, q Querier, cartID int64) ([]models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	ClearItems(ctx context.Context, q Querier, cartID int64) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
// The upsert keeps it idempotent under concurrent first adds.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return cart, nil
}

// GetViewByUserID loads the cart together with its items and product data.
// It returns sql.ErrNoRows when the user has no cart yet.
func (r *cartRepository) GetViewByUserID(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {

	cart, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := r.GetItemsWithProducts(ctx, r.DB, cart.ID)
	if err != nil {
		return nil, err
	}

	return &models.CartView{Cart: cart, Items: items}, nil
}

// GetItemsWithProducts fetches the cart's items with their product data
// joined in one round trip. It takes a Querier so order placement can re-read
// the cart inside its transaction.
func (r *cartRepository) GetItemsWithProducts(ctx context.Context, q Querier, cartID int64) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := q.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	defer rows.Close()

	var items []models.CartItem

	for rows.Next() {
		var item models.CartItem

		product := &models.Product{}

		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&product.ID, &product.Name, &product.Description, &product.Price, &product.StockQuantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.Product = product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// UpsertItem adds quantity to the (cart, product) row, creating it when
// absent. The unique constraint keeps one row per pair.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.DB.ExecContext(dbCtx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClearItems removes every item from the cart; the cart row itself survives
// for reuse.
func (r *cartRepository) ClearItems(ctx context.Context, q Querier, cartID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := q.ExecContext(dbCtx, query, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	return nil
}
