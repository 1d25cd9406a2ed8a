// Package api_gateway hosts the gin HTTP server fronting the PIX charge
// lifecycle and the audit trail.
package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacecworp-pix-gateway/internal/api_gateway/handler"
	"github.com/spacecworp-pix-gateway/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	chargeHandler *handler.ChargeHandler,
	auditHandler *handler.AuditHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// PIX charge operations
		charges := v1.Group("/pix/charges")
		{
			charges.POST("", chargeHandler.Create)
			charges.GET("/:id", chargeHandler.GetByID)
			charges.POST("/:id/confirm", chargeHandler.Confirm)
		}

		// Audit trail
		auditLog := v1.Group("/audit-log")
		{
			auditLog.POST("", auditHandler.Record)
			auditLog.GET("", auditHandler.Recent)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
