package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dipendrakshah/sportshopping-backend/internal/api/handlers"
	appErrors "github.com/dipendrakshah/sportshopping-backend/internal/errors"
	"github.com/dipendrakshah/sportshopping-backend/internal/models"
	"github.com/dipendrakshah/sportshopping-backend/internal/testutils"
	"github.com/dipendrakshah/sportshopping-backend/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartHandlerTest(t *testing.T) (*MockCartService, *handlers.CartHandler) {
	t.Helper()

	mockCartService := &MockCartService{}
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	return resp
}

func TestGetCartHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Retrieve Cart", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/carts", nil, userID, nil)
		recorder := httptest.NewRecorder()

		view := &models.CartView{
			Cart:  &models.Cart{ID: 5, UserID: userID},
			Items: []models.CartItem{},
		}

		mockCartService.On("GetCart", mock.Anything, userID).Return(view, nil).Once()

		cartHandler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.True(t, resp.Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Claims", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		cartHandler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, resp.Error.Code)
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestAddItemHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Item Added", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)

		body, _ := json.Marshal(models.AddItemRequest{ProductID: 42, Quantity: 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		view := &models.CartView{
			Cart: &models.Cart{ID: 5, UserID: userID},
			Items: []models.CartItem{
				{ID: 10, CartID: 5, ProductID: 42, Quantity: 2},
			},
			Total: 179.98,
		}

		mockCartService.On("AddItem", mock.Anything, userID, mock.MatchedBy(func(r *models.AddItemRequest) bool {
			return r.ProductID == 42 && r.Quantity == 2
		})).Return(view, nil).Once()

		cartHandler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.True(t, resp.Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Quantity", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)

		body, _ := json.Marshal(models.AddItemRequest{ProductID: 42, Quantity: 0})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		cartHandler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Insufficient Stock", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)

		body, _ := json.Marshal(models.AddItemRequest{ProductID: 42, Quantity: 50})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(nil, appErrors.InsufficientStockError("Trail Shoes", 50, 12)).Once()

		cartHandler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Contains(t, resp.Error.Details[0], "available 12")
		mockCartService.AssertExpectations(t)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Item Removed", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/carts/items/10", nil, userID,
			map[string]string{"id": "10"})
		recorder := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, userID, int64(10)).Return(nil).Once()

		cartHandler.RemoveItem()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Item ID", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/carts/items/abc", nil, userID,
			map[string]string{"id": "abc"})
		recorder := httptest.NewRecorder()

		cartHandler.RemoveItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		mockCartService, cartHandler := setupCartHandlerTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/carts/items/99", nil, userID,
			map[string]string{"id": "99"})
		recorder := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, userID, int64(99)).
			Return(appErrors.NotFoundError("Item not found in cart")).Once()

		cartHandler.RemoveItem()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}
