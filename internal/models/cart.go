package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the persistent per-user cart row. It is created lazily on the first
// add and survives order placement; only its items are cleared.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem holds the quantity of a single product in a cart. There is at most
// one row per (cart, product) pair; repeated adds accumulate the quantity.
type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cart_id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// CartView is the cart with its items and product data joined in. An absent
// cart renders as a view with zero items rather than an error.
type CartView struct {
	Cart  *Cart      `json:"cart,omitempty"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity"   validate:"required,min=1"`
}
