package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, categoryID *int64, page, size int) ([]*models.Product, int, error)
	Search(ctx context.Context, keyword string) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (category_id, name, description, price, stock_quantity, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.Price, product.StockQuantity, product.ImageURL).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.price,
		       p.stock_quantity, p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	product := &models.Product{}

	var (
		categoryID   sql.NullInt64
		categoryName sql.NullString
		categoryDesc sql.NullString
	)

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Price,
		&product.StockQuantity, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt,
		&categoryID, &categoryName, &categoryDesc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if categoryID.Valid {
		product.Category = &models.Category{
			ID:          categoryID.Int64,
			Name:        categoryName.String,
			Description: categoryDesc.String,
		}
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context, categoryID *int64, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products WHERE ($1::bigint IS NULL OR category_id = $1)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, categoryID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.price,
		       p.stock_quantity, p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE ($1::bigint IS NULL OR p.category_id = $1)
		ORDER BY p.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, categoryID, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Search matches the keyword against product names and category names.
func (r *productRepository) Search(ctx context.Context, keyword string) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.price,
		       p.stock_quantity, p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.name ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%'
		ORDER BY p.id
	`

	rows, err := r.DB.QueryContext(dbCtx, query, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		var (
			categoryID   sql.NullInt64
			categoryName sql.NullString
			categoryDesc sql.NullString
		)

		err := rows.Scan(
			&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Price,
			&product.StockQuantity, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt,
			&categoryID, &categoryName, &categoryDesc)
		if err != nil {
			return nil, err
		}

		if categoryID.Valid {
			product.Category = &models.Category{
				ID:          categoryID.Int64,
				Name:        categoryName.String,
				Description: categoryDesc.String,
			}
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
