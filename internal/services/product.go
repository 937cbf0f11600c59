package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dipendrakshah/sportshopping-backend/internal/cache"
	appErrors "github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	repository "github.com/dipendrakshah/sportshopping-backend/internal/repositories"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID *int64, page, size int) ([]*models.Product, int, error)
	SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error)
}

type productService struct {
	repo         repository.ProductRepository
	productCache cache.Cache
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache) ProductService {
	return &productService{repo: repo, productCache: productCache}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.Stock,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	key := productCacheKey(id)

	if s.productCache != nil {
		product := &models.Product{}

		found, err := s.productCache.Get(ctx, key, product)
		if err != nil {
			slog.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if found {
			return product, nil
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if s.productCache != nil {
		if err := s.productCache.Set(ctx, key, product, 0); err != nil {
			slog.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, categoryID *int64, page, size int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	products, total, err := s.repo.List(ctx, categoryID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error) {

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*models.Product{}, nil
	}

	products, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, nil
}

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
