package constants

// Redis key formats
const (
	// KeyRateLimit is rate:limit:{resource}:{identifier}
	KeyRateLimit = "rate:limit:%s:%s"
)
