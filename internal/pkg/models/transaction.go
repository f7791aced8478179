package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusAnalyzing TransactionStatus = "ANALYZING"
	TransactionStatusSuspect   TransactionStatus = "SUSPECT"
	TransactionStatusValidated TransactionStatus = "VALIDATED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// TransactionDirection tells whether funds leave or reach the viewing user
type TransactionDirection string

const (
	DirectionIncoming TransactionDirection = "INCOMING"
	DirectionOutgoing TransactionDirection = "OUTGOING"
)

// DefaultCurrency is the wallet currency used by the backend when none is given
const DefaultCurrency = "PYC"

// Transaction is the read-only projection of a backend transaction record.
// Only Status (through backend events) and Comment ever change after creation.
type Transaction struct {
	ID           string               `json:"transaction_id"`
	Amount       decimal.Decimal      `json:"amount"`
	Currency     string               `json:"currency"`
	Counterparty string               `json:"recipient_name"`
	Direction    TransactionDirection `json:"direction"`
	Status       TransactionStatus    `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	Comment      string               `json:"comment,omitempty"`
}

// CreateTransactionRequest is the transfer request accepted from the UI
type CreateTransactionRequest struct {
	Recipient string          `json:"recipient" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Currency  string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Comment   string          `json:"comment,omitempty"`
}

// UpdateCommentRequest carries a new annotation for an existing transaction
type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}

// StatusResponse is the authoritative status payload returned by the backend
type StatusResponse struct {
	TransactionID string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty"`
}
