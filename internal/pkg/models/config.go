package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Backend   BackendConfig
	Tracker   TrackerConfig
	NATS      NATSConfig
	NSQ       NSQConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// BackendConfig describes the payment backend that owns transactions
type BackendConfig struct {
	BaseURL   string
	WSURL     string
	Timeout   time.Duration
	UserAgent string
	// RuleCodes is the backend's canonical rule code list, checked against the message table at startup
	RuleCodes []string
}

// TrackerConfig tunes the status delivery channel
type TrackerConfig struct {
	Transport         string // nats, nsq, websocket or poll
	PollInterval      time.Duration
	MaxWait           time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	ResyncAttempts    int
	EventBuffer       int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// NSQConfig contains NSQ connection configuration
type NSQConfig struct {
	NSQDAddress    string
	LookupdAddress []string
	StatusTopic    string
	MaxInFlight    int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Enabled          bool
	Host             string
	Port             int
	Username         string
	Password         string
	Database         string
	SSLMode          string
	MaxConns         int
	IdleConns        int
	// MigrationsSource is a golang-migrate source URL, file://migrations by default
	MigrationsSource string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret string
	Issuer string
}

// RateLimitConfig bounds transfer creation per user
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Period  time.Duration
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	Enabled     bool
	LicenseKey  string
	AppName     string
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
