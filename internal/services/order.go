package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dipendrakshah/sportshopping-backend/internal/cache"
	appErrors "github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	repository "github.com/dipendrakshah/sportshopping-backend/internal/repositories"
	"github.com/google/uuid"
)

// TxRunner is the scoped atomic unit of work the order engine depends on:
// every write inside fn commits together or rolls back together.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, email string) (*models.Order, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error)
	RefundOrder(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderService struct {
	tx              TxRunner
	orderRepo       repository.OrderRepository
	cartRepo        repository.CartRepository
	inventoryRepo   repository.InventoryRepository
	productCache    cache.Cache
	notificationSvc NotificationService
}

func NewOrderService(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventoryRepo repository.InventoryRepository,
	productCache cache.Cache,
	notificationSvc NotificationService,
) OrderService {
	return &orderService{
		tx:              tx,
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		inventoryRepo:   inventoryRepo,
		productCache:    productCache,
		notificationSvc: notificationSvc,
	}
}

// PlaceOrder converts the user's cart into a pending order: it checks stock
// for every item, snapshots prices into order items, reserves stock and
// clears the cart, all inside one transaction. The confirmation email is sent
// after commit and never rolls the order back.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, email string) (*models.Order, error) {

	// Cheap short-circuit before opening the transaction.
	view, err := s.cartRepo.GetViewByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.EmptyCartError()
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if len(view.Items) == 0 {
		return nil, appErrors.EmptyCartError()
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {

		// Re-read inside the transaction so the stock figures we validate
		// against are the ones we reserve against.
		items, err := s.cartRepo.GetItemsWithProducts(ctx, tx, view.Cart.ID)
		if err != nil {
			return appErrors.DatabaseError("Failed to load cart items").WithError(err)
		}

		if len(items) == 0 {
			return appErrors.EmptyCartError()
		}

		// All items are checked before any stock is decremented, so a
		// failure on the last line leaves nothing reserved.
		for _, item := range items {
			if item.Product.StockQuantity < item.Quantity {
				return appErrors.InsufficientStockError(item.Product.Name, item.Quantity, item.Product.StockQuantity)
			}
		}

		var total float64

		for _, item := range items {
			total += item.Product.Price * float64(item.Quantity)

			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			})
		}

		order.TotalAmount = total

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return appErrors.DatabaseError("Failed to create order").WithError(err)
		}

		for _, item := range items {
			if err := s.inventoryRepo.Reserve(ctx, tx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					// A concurrent order depleted the stock between our read
					// and the reservation; the whole attempt rolls back.
					available, stockErr := s.inventoryRepo.GetStock(ctx, tx, item.ProductID)
					if stockErr != nil {
						available = 0
					}

					return appErrors.InsufficientStockError(item.Product.Name, item.Quantity, available)
				}

				return appErrors.DatabaseError("Failed to reserve stock").WithError(err)
			}
		}

		if err := s.cartRepo.ClearItems(ctx, tx, view.Cart.ID); err != nil {
			return appErrors.DatabaseError("Failed to clear cart").WithError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, order.Items)

	// Best-effort: the order is already durable, a failed email is logged
	// and reported through the notifications table, never returned.
	if err := s.notificationSvc.SendOrderConfirmation(ctx, order, email); err != nil {
		slog.Error("Failed to send order confirmation",
			slog.Int64("orderId", order.ID),
			slog.String("error", err.Error()))
	}

	return order, nil
}

// CancelOrder releases the reserved stock of a pending order and marks it
// cancelled. Cancelled is terminal.
func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if order.Status != models.OrderStatusPending {
		return nil, appErrors.InvalidStateError("Cannot cancel order that is not pending")
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.restoreStockAndTransition(ctx, tx, order, models.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, order.Items)

	order.Status = models.OrderStatusCancelled

	return order, nil
}

// RefundOrder restores stock and marks the order refunded. Only pending
// orders are refundable: refunding a cancelled order would credit its stock a
// second time, so that transition is rejected too.
func (s *orderService) RefundOrder(ctx context.Context, orderID int64) (*models.Order, error) {

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	switch order.Status {
	case models.OrderStatusRefunded:
		return nil, appErrors.AlreadyRefundedError()
	case models.OrderStatusCancelled:
		return nil, appErrors.InvalidStateError("Cannot refund a cancelled order")
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.restoreStockAndTransition(ctx, tx, order, models.OrderStatusRefunded)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, order.Items)

	order.Status = models.OrderStatusRefunded

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// restoreStockAndTransition persists the terminal status and releases exactly
// the quantities recorded in the order's items, inside the caller's
// transaction. The conditional transition runs first and is the authoritative
// guard: the pre-read status check outside the transaction can be stale, and
// without this guard a concurrent cancel and refund could both release the
// same stock.
func (s *orderService) restoreStockAndTransition(ctx context.Context, tx *sql.Tx, order *models.Order, status models.OrderStatus) error {

	if err := s.orderRepo.TransitionFromPending(ctx, tx, order.ID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotPending) {
			verb := "cancel"
			if status == models.OrderStatusRefunded {
				verb = "refund"
			}

			return appErrors.InvalidStateError(fmt.Sprintf("Cannot %s order that is not pending", verb))
		}

		return appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	for _, item := range order.Items {
		if err := s.inventoryRepo.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return appErrors.DatabaseError("Failed to restore stock").WithError(err)
		}
	}

	return nil
}

func (s *orderService) invalidateProductCache(ctx context.Context, items []models.OrderItem) {

	if s.productCache == nil {
		return
	}

	for _, item := range items {
		key := fmt.Sprintf("product:%d", item.ProductID)
		if err := s.productCache.Delete(ctx, key); err != nil {
			slog.Warn("Failed to invalidate product cache", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}
