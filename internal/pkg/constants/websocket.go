package constants

// WebSocket event types
const (
	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"

	// Browser to tracker
	EventTrackTransaction   = "track_transaction"
	EventUntrackTransaction = "untrack_transaction"

	// Tracker to browser
	EventTransactionStatus        = "transaction_status"
	EventTransactionStatusUnknown = "transaction_status_unknown"
)

// WebSocket error codes
const (
	ErrorInvalidFormat    = "invalid_format"
	ErrorValidationFailed = "validation_failed"
	ErrorUnauthorized     = "unauthorized"
	ErrorInternalError    = "internal_error"
	ErrorUnknownEvent     = "unknown_event"
	ErrorTrackingFailed   = "tracking_failed"
)
