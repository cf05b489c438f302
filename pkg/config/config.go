package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string
	FeedQueue        string

	// Media provider
	LiveKitURL          string
	LiveKitAPIKey       string
	LiveKitAPISecret    string
	MediaRegion         string
	ParticipantTokenTTL time.Duration

	// HTTP
	HTTPAddr      string
	JoinRateLimit float64
	JoinRateBurst int

	// Telephony
	AudioBucket       string
	MaxPromptAttempts int

	// Paging
	CallURL         string
	JoinPhoneNumber string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string
	SMSRoutingKey   string

	// Registry
	ExternalIDReservationTTL time.Duration
	SuppressUpdateEvents     bool

	// Availability
	AvailabilitySchedule string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	driver := getEnv("DATABASE_DRIVER", "")
	if driver == "" {
		driver = "sqlite"
		if databaseURL != "" {
			driver = "auto"
		}
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL:    databaseURL,
		DatabaseDriver: driver,
		SQLitePath:     getEnv("SQLITE_PATH", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "responder.events"),
		FeedQueue:        getEnv("FEED_QUEUE", "responder.meeting-feed"),

		LiveKitURL:          getEnv("LIVEKIT_URL", "http://localhost:7880"),
		LiveKitAPIKey:       getEnv("LIVEKIT_API_KEY", ""),
		LiveKitAPISecret:    getEnv("LIVEKIT_API_SECRET", ""),
		MediaRegion:         getEnv("MEDIA_REGION", "ca-central-1"),
		ParticipantTokenTTL: getDurationEnv("PARTICIPANT_TOKEN_TTL", 6*time.Hour),

		HTTPAddr:      getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		JoinRateLimit: getFloatEnv("JOIN_RATE_LIMIT", 5),
		JoinRateBurst: getIntEnv("JOIN_RATE_BURST", 10),

		AudioBucket:       getEnv("AUDIO_BUCKET", "first-responder-audio-assets"),
		MaxPromptAttempts: getIntEnv("MAX_PROMPT_ATTEMPTS", 3),

		CallURL:         getEnv("CALL_URL", ""),
		JoinPhoneNumber: getEnv("JOIN_PHONE_NUMBER", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getIntEnv("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", ""),
		SMSRoutingKey:   getEnv("SMS_ROUTING_KEY", "notifications.sms.requested"),

		ExternalIDReservationTTL: getDurationEnv("EXTERNAL_ID_RESERVATION_TTL", 24*time.Hour),
		SuppressUpdateEvents:     getBoolEnv("SUPPRESS_UPDATE_EVENTS", false),

		AvailabilitySchedule: getEnv("AVAILABILITY_SCHEDULE", "@every 30m"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot work at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && (c.LiveKitAPIKey == "" || c.LiveKitAPISecret == "") {
		errs = append(errs, errors.New("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required in production"))
	}
	if c.JoinRateLimit < 0 || c.JoinRateBurst < 0 {
		errs = append(errs, errors.New("JOIN_RATE_LIMIT and JOIN_RATE_BURST must not be negative"))
	}
	if c.MaxPromptAttempts < 1 {
		errs = append(errs, errors.New("MAX_PROMPT_ATTEMPTS must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsSQLite reports whether the SQLite backend is selected.
func (c *Config) IsSQLite() bool {
	return c.DatabaseDriver == "sqlite"
}

// IsPostgres reports whether the Postgres backend is selected.
func (c *Config) IsPostgres() bool {
	return c.DatabaseDriver == "postgres" || c.DatabaseDriver == "auto"
}

// SMTPEnabled reports whether email paging is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
