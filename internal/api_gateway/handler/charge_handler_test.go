package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChargeService struct {
	mock.Mock
}

func (m *MockChargeService) CreateCharge(ctx context.Context, amount float64, key, description, merchantName, merchantCity string) (*charge.Charge, error) {
	args := m.Called(ctx, amount, key, description, merchantName, merchantCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.Charge), args.Error(1)
}

func (m *MockChargeService) GetChargeByID(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.Charge), args.Error(1)
}

func (m *MockChargeService) ConfirmCharge(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.Charge), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.Default()
}

func decodeChargeData(t *testing.T, body []byte) ChargeResponse {
	t.Helper()
	var topLevel Response
	require.NoError(t, json.Unmarshal(body, &topLevel))
	require.NotNil(t, topLevel.Data)

	dataBytes, err := json.Marshal(topLevel.Data)
	require.NoError(t, err)
	var resp ChargeResponse
	require.NoError(t, json.Unmarshal(dataBytes, &resp))
	return resp
}

func sampleCharge(t *testing.T) *charge.Charge {
	t.Helper()
	c, err := charge.New(2550, "chave@example.com", "Pedido 123", "EMPRESA LTDA", "SAO PAULO")
	require.NoError(t, err)
	return c
}

func TestChargeHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		expected := sampleCharge(t)
		mockService.On("CreateCharge", mock.Anything, 25.50, "chave@example.com", "Pedido 123", "", "").Return(expected, nil)

		router := setupTestRouter()
		router.POST("/charges", handler.Create)

		jsonBody, _ := json.Marshal(CreateChargeRequest{
			Amount:      25.50,
			Key:         "chave@example.com",
			Description: "Pedido 123",
		})

		req, _ := http.NewRequest(http.MethodPost, "/charges", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		resp := decodeChargeData(t, rr.Body.Bytes())
		assert.Equal(t, expected.ID.String(), resp.ID)
		assert.Equal(t, expected.QRPayload, resp.QR)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 25.50, resp.Amount)
		assert.Equal(t, expected.TransactionID, resp.TransactionID)
		assert.Empty(t, resp.PaidAt)

		mockService.AssertExpectations(t)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/charges", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/charges", bytes.NewBufferString(`{"key":"chave@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingKey", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/charges", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/charges", bytes.NewBufferString(`{"amount":10}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("ValidationErrorFromService", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		mockService.On("CreateCharge", mock.Anything, 0.004, "chave@example.com", "", "", "").
			Return(nil, charge.ErrSubCentAmount)

		router := setupTestRouter()
		router.POST("/charges", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/charges", bytes.NewBufferString(`{"amount":0.004,"key":"chave@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("InternalError", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		mockService.On("CreateCharge", mock.Anything, 10.0, "chave@example.com", "", "", "").
			Return(nil, errors.New("db down"))

		router := setupTestRouter()
		router.POST("/charges", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/charges", bytes.NewBufferString(`{"amount":10,"key":"chave@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestChargeHandler_GetByID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		expected := sampleCharge(t)
		mockService.On("GetChargeByID", mock.Anything, expected.ID).Return(expected, nil)

		router := setupTestRouter()
		router.GET("/charges/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/charges/"+expected.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeChargeData(t, rr.Body.Bytes())
		assert.Equal(t, expected.ID.String(), resp.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		unknownID := uuid.New()
		mockService.On("GetChargeByID", mock.Anything, unknownID).
			Return(nil, charge.ErrChargeNotFound{ChargeID: unknownID})

		router := setupTestRouter()
		router.GET("/charges/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/charges/"+unknownID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/charges/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/charges/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetChargeByID", mock.Anything, mock.Anything)
	})
}

func TestChargeHandler_Confirm(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		confirmed := sampleCharge(t)
		require.NoError(t, confirmed.Confirm(confirmed.CreatedAt.Add(time.Minute)))

		mockService.On("ConfirmCharge", mock.Anything, confirmed.ID).Return(confirmed, nil)

		router := setupTestRouter()
		router.POST("/charges/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/charges/"+confirmed.ID.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeChargeData(t, rr.Body.Bytes())
		assert.Equal(t, "completed", resp.Status)
		assert.NotEmpty(t, resp.PaidAt)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		id := uuid.New()
		mockService.On("ConfirmCharge", mock.Anything, id).
			Return(nil, charge.ErrChargeConflict{ChargeID: id, Status: charge.StatusExpired})

		router := setupTestRouter()
		router.POST("/charges/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/charges/"+id.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)

		var topLevel Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevel))
		require.NotNil(t, topLevel.Error)
		assert.Equal(t, "CONFLICT", topLevel.Error.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockChargeService)
		handler := NewChargeHandler(logger, mockService)

		id := uuid.New()
		mockService.On("ConfirmCharge", mock.Anything, id).
			Return(nil, charge.ErrChargeNotFound{ChargeID: id})

		router := setupTestRouter()
		router.POST("/charges/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/charges/"+id.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
