package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	repository "github.com/dipendrakshah/sportshopping-backend/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the cart with product data joined in. A user without a cart
// gets an empty view, not an error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {

	view, err := s.cartRepo.GetViewByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.CartView{Items: []models.CartItem{}}, nil
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	view.Total = calculateCartTotal(view.Items)

	return view, nil
}

// AddItem accumulates quantity into the (cart, product) row, creating the
// cart lazily. The stock check here is informational only; the authoritative
// check happens again at order placement.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartView, error) {

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if product.StockQuantity < req.Quantity {
		return nil, appErrors.InsufficientStockError(product.Name, req.Quantity, product.StockQuantity)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	if err := s.cartRepo.UpsertItem(ctx, cart.ID, product.ID, req.Quantity); err != nil {
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes the item when it belongs to the caller's cart; a missing
// cart and a foreign item both read as not found.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error {

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Item not found in cart").WithError(err)
		}

		return appErrors.DatabaseError("Failed to remove item from cart").WithError(err)
	}

	return nil
}

func calculateCartTotal(items []models.CartItem) float64 {

	var total float64

	for _, item := range items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}

	return total
}
