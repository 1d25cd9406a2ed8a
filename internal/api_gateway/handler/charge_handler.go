// Package handler exposes the gateway's HTTP surface: PIX charge operations
// and the audit trail.
package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spacecworp-pix-gateway/internal/api_gateway/service"
	"github.com/spacecworp-pix-gateway/internal/domain/charge"
)

// ChargeHandler handles HTTP requests for PIX charge operations
type ChargeHandler struct {
	chargeService service.ChargeService
	logger        *slog.Logger
}

// NewChargeHandler creates a new charge handler
func NewChargeHandler(logger *slog.Logger, chargeService service.ChargeService) *ChargeHandler {
	return &ChargeHandler{
		chargeService: chargeService,
		logger:        logger,
	}
}

// Create handles creation of a new charge, returning the stored record with
// its BR Code payload
func (h *ChargeHandler) Create(c *gin.Context) {
	var req CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.chargeService.CreateCharge(c.Request.Context(), req.Amount, req.Key, req.Description, req.MerchantName, req.MerchantCity)
	if err != nil {
		if charge.IsValidationError(err) {
			h.logger.Warn("Charge rejected", "error", err)
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create charge", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapChargeToResponse(created))
}

// GetByID retrieves a charge by its ID, returning 404 if not found
func (h *ChargeHandler) GetByID(c *gin.Context) {
	id, ok := h.chargeID(c)
	if !ok {
		return
	}

	found, err := h.chargeService.GetChargeByID(c.Request.Context(), id)
	if err != nil {
		var notFound charge.ErrChargeNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charge not found")
			return
		}
		h.logger.Error("Failed to get charge", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapChargeToResponse(found))
}

// Confirm marks a pending charge as paid. Re-confirming a completed charge
// succeeds without changes; expired and failed charges yield 409.
func (h *ChargeHandler) Confirm(c *gin.Context) {
	id, ok := h.chargeID(c)
	if !ok {
		return
	}

	confirmed, err := h.chargeService.ConfirmCharge(c.Request.Context(), id)
	if err != nil {
		var notFound charge.ErrChargeNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charge not found")
			return
		}
		var conflict charge.ErrChargeConflict
		if errors.As(err, &conflict) {
			h.logger.Warn("Confirm rejected", "id", id.String(), "status", conflict.Status)
			RespondConflict(c, conflict.Error())
			return
		}
		h.logger.Error("Failed to confirm charge", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapChargeToResponse(confirmed))
}

func (h *ChargeHandler) chargeID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid charge ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid charge ID")
		return uuid.Nil, false
	}
	return id, true
}

// mapChargeToResponse maps a charge entity to a charge response DTO
func mapChargeToResponse(c *charge.Charge) ChargeResponse {
	resp := ChargeResponse{
		ID:            c.ID.String(),
		QR:            c.QRPayload,
		Status:        string(c.Status),
		Amount:        float64(c.AmountCents) / 100,
		Key:           c.Key,
		Description:   c.Description,
		MerchantName:  c.MerchantName,
		MerchantCity:  c.MerchantCity,
		TransactionID: c.TransactionID,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	if c.PaidAt != nil {
		resp.PaidAt = c.PaidAt.Format(time.RFC3339)
	}
	return resp
}
