package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration from the environment, reading configPath first in local mode
func InitConfig(configPath string) *models.Config {
	v := newViper()

	if v.GetString("APP_ENV") == "local" {
		// Load config from file
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}

	return loadConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

var defaults = map[string]interface{}{
	"APP_NAME":    "payon-tracker",
	"APP_ENV":     "local",
	"APP_DEBUG":   true,
	"APP_VERSION": "development",

	"SERVER_HOST":             "0.0.0.0",
	"SERVER_PORT":             9990,
	"SERVER_READ_TIMEOUT":     10,
	"SERVER_WRITE_TIMEOUT":    15,
	"SERVER_SHUTDOWN_TIMEOUT": 30,

	"BACKEND_URL":        "http://localhost:8000",
	"BACKEND_WS_URL":     "ws://localhost:8000",
	"BACKEND_TIMEOUT":    "10s",
	"BACKEND_USER_AGENT": "payon-tracker",
	"BACKEND_RULE_CODES": "",

	"TRACKER_TRANSPORT":          "nats",
	"TRACKER_POLL_INTERVAL":      "3s",
	"TRACKER_MAX_WAIT":           "2m",
	"TRACKER_RECONNECT_ATTEMPTS": 3,
	"TRACKER_RECONNECT_DELAY":    "500ms",
	"TRACKER_RESYNC_ATTEMPTS":    3,
	"TRACKER_EVENT_BUFFER":       16,

	"NATS_URL":            "nats://localhost:4222",
	"NATS_SUBJECT_PREFIX": "transaction.status",

	"NSQ_NSQD_ADDRESS":    "localhost:4150",
	"NSQ_LOOKUPD_ADDRESS": "",
	"NSQ_STATUS_TOPIC":    "transaction.status",
	"NSQ_MAX_IN_FLIGHT":   50,

	"REDIS_HOST":      "localhost",
	"REDIS_PORT":      6379,
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"REDIS_POOL_SIZE": 10,

	"DB_ENABLED":           false,
	"DB_HOST":              "localhost",
	"DB_PORT":              5432,
	"DB_USERNAME":          "postgres",
	"DB_PASSWORD":          "",
	"DB_DATABASE":          "payon",
	"DB_SSL_MODE":          "disable",
	"DB_MAX_CONNS":         10,
	"DB_IDLE_CONNS":        2,
	"DB_MIGRATIONS_SOURCE": "file://migrations",

	"JWT_SECRET": "",
	"JWT_ISSUER": "",

	"RATE_LIMIT_ENABLED": true,
	"RATE_LIMIT_LIMIT":   10,
	"RATE_LIMIT_PERIOD":  "1m",

	"NEW_RELIC_ENABLED":      false,
	"NEW_RELIC_LICENSE_KEY":  "",
	"NEW_RELIC_APP_NAME":     "payon-tracker",
	"NEW_RELIC_FORWARD_LOGS": false,

	"LOG_LEVEL":     "info",
	"LOG_FILE_PATH": "",
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	// Backend config
	configs.Backend.BaseURL = strings.TrimRight(v.GetString("BACKEND_URL"), "/")
	configs.Backend.WSURL = strings.TrimRight(v.GetString("BACKEND_WS_URL"), "/")
	configs.Backend.Timeout = v.GetDuration("BACKEND_TIMEOUT")
	configs.Backend.UserAgent = v.GetString("BACKEND_USER_AGENT")
	configs.Backend.RuleCodes = splitList(v.GetString("BACKEND_RULE_CODES"))

	// Tracker config
	configs.Tracker.Transport = strings.ToLower(strings.TrimSpace(v.GetString("TRACKER_TRANSPORT")))
	configs.Tracker.PollInterval = v.GetDuration("TRACKER_POLL_INTERVAL")
	configs.Tracker.MaxWait = v.GetDuration("TRACKER_MAX_WAIT")
	configs.Tracker.ReconnectAttempts = v.GetInt("TRACKER_RECONNECT_ATTEMPTS")
	configs.Tracker.ReconnectDelay = v.GetDuration("TRACKER_RECONNECT_DELAY")
	configs.Tracker.ResyncAttempts = v.GetInt("TRACKER_RESYNC_ATTEMPTS")
	configs.Tracker.EventBuffer = v.GetInt("TRACKER_EVENT_BUFFER")

	// NATS config
	configs.NATS.URL = v.GetString("NATS_URL")
	configs.NATS.SubjectPrefix = v.GetString("NATS_SUBJECT_PREFIX")

	// NSQ config
	configs.NSQ.NSQDAddress = v.GetString("NSQ_NSQD_ADDRESS")
	configs.NSQ.LookupdAddress = splitList(v.GetString("NSQ_LOOKUPD_ADDRESS"))
	configs.NSQ.StatusTopic = v.GetString("NSQ_STATUS_TOPIC")
	configs.NSQ.MaxInFlight = v.GetInt("NSQ_MAX_IN_FLIGHT")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// Database config
	configs.Database.Enabled = v.GetBool("DB_ENABLED")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")
	configs.Database.MigrationsSource = v.GetString("DB_MIGRATIONS_SOURCE")

	// JWT config
	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Rate limit config
	configs.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	configs.RateLimit.Limit = v.GetInt("RATE_LIMIT_LIMIT")
	configs.RateLimit.Period = v.GetDuration("RATE_LIMIT_PERIOD")

	// NewRelic config
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	return configs
}

// splitList splits a comma separated env value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
