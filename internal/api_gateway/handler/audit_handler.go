package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spacecworp-pix-gateway/internal/api_gateway/service"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *slog.Logger, auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// Record appends a client-reported event to the audit trail
func (h *AuditHandler) Record(c *gin.Context) {
	var req RecordAuditEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid audit event", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.auditService.RecordEvent(c.Request.Context(), req.Event, req.Details, req.User, req.Timestamp)
	if err != nil {
		h.logger.Error("Failed to record audit event", "event", req.Event, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, event)
}

// Recent lists the newest audit events, capped by the limit query parameter
func (h *AuditHandler) Recent(c *gin.Context) {
	var params ListAuditEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid limit parameter")
		return
	}

	events, err := h.auditService.RecentEvents(c.Request.Context(), params.Limit)
	if err != nil {
		h.logger.Error("Failed to list audit events", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, events)
}
