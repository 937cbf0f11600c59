package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	appErrors "github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	service "github.com/dipendrakshah/sportshopping-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) (service.ProductService, *MockProductRepository, *MockCache) {
	t.Helper()

	mockRepo := &MockProductRepository{}
	mockCache := &MockCache{}
	productService := service.NewProductService(mockRepo, mockCache)

	return productService, mockRepo, mockCache
}

func TestCreateNewProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest(t)
		ctx := t.Context()

		req := &models.CreateProductRequest{
			Name:  "Trail Shoes",
			Price: 89.99,
			Stock: 12,
		}

		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				productArg := args.Get(1).(*models.Product)
				assert.Equal(t, "Trail Shoes", productArg.Name)
				assert.Equal(t, 12, productArg.StockQuantity)
				productArg.ID = 42
			}).Return(nil).Once()

		product, err := productService.CreateProduct(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, int64(42), product.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest(t)
		ctx := t.Context()

		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).
			Return(errors.New("DB error")).Once()

		product, err := productService.CreateProduct(ctx, &models.CreateProductRequest{Name: "Trail Shoes"})

		require.Error(t, err)
		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Success - Cache Miss Falls Through To Database", func(t *testing.T) {
		productService, mockRepo, mockCache := setupProductServiceTest(t)
		ctx := t.Context()

		expected := &models.Product{ID: 42, Name: "Trail Shoes", Price: 89.99}

		mockCache.On("Get", ctx, "product:42", mock.AnythingOfType("*models.Product")).
			Return(false, nil).Once()
		mockRepo.On("GetByID", ctx, int64(42)).Return(expected, nil).Once()
		mockCache.On("Set", ctx, "product:42", expected, time.Duration(0)).Return(nil).Once()

		product, err := productService.GetProductByID(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, expected, product)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Hit Skips Database", func(t *testing.T) {
		productService, mockRepo, mockCache := setupProductServiceTest(t)
		ctx := t.Context()

		mockCache.On("Get", ctx, "product:42", mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				productArg := args.Get(2).(*models.Product)
				productArg.ID = 42
				productArg.Name = "Trail Shoes"
			}).Return(true, nil).Once()

		product, err := productService.GetProductByID(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, "Trail Shoes", product.Name)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Error Is Tolerated", func(t *testing.T) {
		productService, mockRepo, mockCache := setupProductServiceTest(t)
		ctx := t.Context()

		expected := &models.Product{ID: 42, Name: "Trail Shoes"}

		mockCache.On("Get", ctx, "product:42", mock.AnythingOfType("*models.Product")).
			Return(false, errors.New("redis down")).Once()
		mockRepo.On("GetByID", ctx, int64(42)).Return(expected, nil).Once()
		mockCache.On("Set", ctx, "product:42", expected, time.Duration(0)).
			Return(errors.New("redis down")).Once()

		product, err := productService.GetProductByID(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, expected, product)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		productService, mockRepo, mockCache := setupProductServiceTest(t)
		ctx := t.Context()

		mockCache.On("Get", ctx, "product:999", mock.AnythingOfType("*models.Product")).
			Return(false, nil).Once()
		mockRepo.On("GetByID", ctx, int64(999)).Return(nil, sql.ErrNoRows).Once()

		product, err := productService.GetProductByID(ctx, 999)

		require.Error(t, err)
		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})
}

func TestListAllProducts(t *testing.T) {
	t.Run("Success - Normalizes Pagination", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest(t)
		ctx := t.Context()

		mockRepo.On("List", ctx, (*int64)(nil), 1, 20).
			Return([]*models.Product{{ID: 42}}, 1, nil).Once()

		products, total, err := productService.ListProducts(ctx, nil, 0, 500)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, products, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestSearchForProducts(t *testing.T) {
	t.Run("Success - Trims Keyword", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest(t)
		ctx := t.Context()

		mockRepo.On("Search", ctx, "shoes").
			Return([]*models.Product{{ID: 42, Name: "Trail Shoes"}}, nil).Once()

		products, err := productService.SearchProducts(ctx, "  shoes  ")

		require.NoError(t, err)
		assert.Len(t, products, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Blank Keyword Short-circuits", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest(t)
		ctx := t.Context()

		products, err := productService.SearchProducts(ctx, "   ")

		require.NoError(t, err)
		assert.Empty(t, products)
		mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})
}
