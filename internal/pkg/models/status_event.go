package models

import "time"

// EventOrigin tells how a status reached the tracker
type EventOrigin string

const (
	// OriginPush is a status pushed by the backend over the live channel
	OriginPush EventOrigin = "push"
	// OriginResync is an authoritative fetch made after (re)connecting
	OriginResync EventOrigin = "resync"
	// OriginPoll is an authoritative fetch made while polling in degraded mode
	OriginPoll EventOrigin = "poll"
)

// IsAuthoritative reports whether the status came from a direct backend fetch
func (o EventOrigin) IsAuthoritative() bool {
	return o == OriginResync || o == OriginPoll
}

// StatusEvent is a single status transition for one transaction
type StatusEvent struct {
	EventID       string            `json:"event_id,omitempty"`
	TransactionID string            `json:"transaction_id"`
	NewStatus     TransactionStatus `json:"new_status"`
	Decision      string            `json:"decision,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Origin        EventOrigin       `json:"origin,omitempty"`
}

// TransactionView is the simplified view model rendered by display components
type TransactionView struct {
	TransactionID  string            `json:"transaction_id"`
	Status         TransactionStatus `json:"status"`
	Label          string            `json:"label"`
	Icon           string            `json:"icon"`
	StyleClass     string            `json:"style_class"`
	Terminal       bool              `json:"terminal"`
	AwaitingReview bool              `json:"awaiting_review"`
	Unknown        bool              `json:"unknown"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DiagnosticKind classifies an observability event raised by the tracker
type DiagnosticKind string

const (
	DiagnosticInvalidTransition DiagnosticKind = "INVALID_TRANSITION"
	DiagnosticStaleStatus       DiagnosticKind = "STALE_STATUS"
	DiagnosticChannelFailure    DiagnosticKind = "CHANNEL_FAILURE"
)

// Diagnostic is a defect or degradation signal recorded for later inspection
type Diagnostic struct {
	ID            string            `json:"id" db:"id"`
	TransactionID string            `json:"transaction_id" db:"transaction_id"`
	Kind          DiagnosticKind    `json:"kind" db:"kind"`
	FromStatus    TransactionStatus `json:"from_status" db:"from_status"`
	ToStatus      TransactionStatus `json:"to_status" db:"to_status"`
	Origin        EventOrigin       `json:"origin" db:"origin"`
	Detail        string            `json:"detail" db:"detail"`
	ObservedAt    time.Time         `json:"observed_at" db:"observed_at"`
}
