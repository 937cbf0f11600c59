package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dipendrakshah/sportshopping-backend/internal/api/middleware"
	"github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/metrics"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	service "github.com/dipendrakshah/sportshopping-backend/internal/services"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder converts the caller's cart into an order.
// Responds 201 with the order id, 400 when the cart is empty or any item has
// insufficient stock.
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		order, err := h.orderService.PlaceOrder(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			logger.Error("Failed to place order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		metrics.OrderPlaced()

		logger.Info("Order placed successfully", slog.Int64("orderId", order.ID))
		response.Success(w, http.StatusCreated, models.PlaceOrderResponse{
			Message: "Order placed successfully",
			OrderID: order.ID,
		})
	}
}

// GetOrder retrieves one of the caller's orders; foreign order ids read as
// not found.
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to get order", slog.Int64("orderId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		orders, total, err := h.orderService.ListOrdersByUser(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CancelOrder cancels one of the caller's pending orders and restores its
// stock. Responds 404 when the order is missing or foreign, 400 when it is
// not pending.
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order cancel attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if _, err := h.orderService.CancelOrder(r.Context(), claims.UserID, id); err != nil {
			logger.Error("Failed to cancel order", slog.Int64("orderId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		metrics.OrderReversed(string(models.OrderStatusCancelled))

		logger.Info("Order cancelled", slog.Int64("orderId", id))
		response.Success(w, http.StatusOK, map[string]string{"message": "Order cancelled and stock restored"})
	}
}

// RefundOrder is the privileged refund path; routing wraps it with the admin
// check. Responds 404 when missing, 400 when already refunded or cancelled.
func (h *OrderHandler) RefundOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if _, err := h.orderService.RefundOrder(r.Context(), id); err != nil {
			logger.Error("Failed to refund order", slog.Int64("orderId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		metrics.OrderReversed(string(models.OrderStatusRefunded))

		logger.Info("Order refunded", slog.Int64("orderId", id))
		response.Success(w, http.StatusOK, map[string]string{"message": "Order refunded and stock restored"})
	}
}
