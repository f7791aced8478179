package models

import "encoding/json"

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSErrorMessage represents an error message sent over WebSocket
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSTrackRequest asks the tracker to follow (or stop following) a transaction
type WSTrackRequest struct {
	TransactionID string `json:"transaction_id"`
}

// WSStatusUnknown tells the browser the status could not be confirmed in time
type WSStatusUnknown struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}
