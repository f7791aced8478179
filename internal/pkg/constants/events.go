package constants

// Backend status event routing
const (
	// SubjectTransactionStatus is the NATS subject prefix; the transaction id is appended
	SubjectTransactionStatus = "transaction.status"
	// TopicTransactionStatus is the NSQ topic carrying every status event
	TopicTransactionStatus = "transaction.status"
	// BackendStreamPath is the backend websocket path; the transaction id is appended
	BackendStreamPath = "/ws/transactions/"
)
