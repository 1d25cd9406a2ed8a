package handler

import "time"

// CreateChargeRequest represents a request to create a new PIX charge
type CreateChargeRequest struct {
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Key          string  `json:"key" binding:"required"`
	Description  string  `json:"description"`
	MerchantName string  `json:"merchantName"`
	MerchantCity string  `json:"merchantCity"`
}

// ChargeResponse represents a charge in API responses
type ChargeResponse struct {
	ID            string  `json:"id"`
	QR            string  `json:"qr"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Key           string  `json:"key"`
	Description   string  `json:"description,omitempty"`
	MerchantName  string  `json:"merchantName"`
	MerchantCity  string  `json:"merchantCity"`
	TransactionID string  `json:"txid"`
	CreatedAt     string  `json:"createdAt"`
	PaidAt        string  `json:"paidAt,omitempty"`
}

// RecordAuditEventRequest represents a client-reported audit log entry
type RecordAuditEventRequest struct {
	Event     string      `json:"event" binding:"required"`
	Details   interface{} `json:"details"`
	User      string      `json:"user" binding:"required"`
	Timestamp time.Time   `json:"timestamp" binding:"required"`
}

// ListAuditEventsParams represents query parameters for the audit trail
type ListAuditEventsParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=500"`
}
