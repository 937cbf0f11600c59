package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	repository "github.com/dipendrakshah/sportshopping-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the transactional body directly against a nil handle.
// Repository mocks accept any Querier, so the services under test exercise
// their full in-transaction flow without a database.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}

	return fn(nil)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, q repository.Querier, order *models.Order) error {
	args := m.Called(ctx, q, order)

	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)

	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id, userID)

	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)

	if orders, ok := args.Get(0).([]models.Order); ok {
		return orders, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) TransitionFromPending(ctx context.Context, q repository.Querier, id int64, status models.OrderStatus) error {
	args := m.Called(ctx, q, id, status)

	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) GetViewByUserID(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {
	args := m.Called(ctx, userID)

	if view, ok := args.Get(0).(*models.CartView); ok {
		return view, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) GetItemsWithProducts(ctx context.Context, q repository.Querier, cartID int64) ([]models.CartItem, error) {
	args := m.Called(ctx, q, cartID)

	if items, ok := args.Get(0).([]models.CartItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) UpsertItem(ctx context.Context, cartID, productID int64, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	args := m.Called(ctx, cartID, itemID)

	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, q repository.Querier, cartID int64) error {
	args := m.Called(ctx, q, cartID)

	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Reserve(ctx context.Context, q repository.Querier, productID int64, quantity int) error {
	args := m.Called(ctx, q, productID, quantity)

	return args.Error(0)
}

func (m *MockInventoryRepository) Release(ctx context.Context, q repository.Querier, productID int64, quantity int) error {
	args := m.Called(ctx, q, productID, quantity)

	return args.Error(0)
}

func (m *MockInventoryRepository) GetStock(ctx context.Context, q repository.Querier, productID int64) (int, error) {
	args := m.Called(ctx, q, productID)

	return args.Int(0), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, categoryID *int64, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, categoryID, page, size)

	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Search(ctx context.Context, keyword string) ([]*models.Product, error) {
	args := m.Called(ctx, keyword)

	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Error(1)
	}

	return nil, args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)

	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, id)

	if notification, ok := args.Get(0).(*models.Notification); ok {
		return notification, args.Error(1)
	}

	return nil, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()

	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) error {
	args := m.Called(ctx, order, recipient)

	return args.Error(0)
}
