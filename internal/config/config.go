// Package config defines the configuration structures for PatentVault.
// No I/O lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"` // 0 disables limiting
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// StorageConfig selects the patent repository backend.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"` // "memory" | "postgres"
	SeedFile string `mapstructure:"seed_file"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Driver           string        `mapstructure:"driver"` // "postgres" (lib/pq) | "pgx"
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	DBName           string        `mapstructure:"db_name"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	AutoMigrate      bool          `mapstructure:"auto_migrate"`
}

// RedisConfig holds the AI extraction cache parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
}

// KafkaConfig holds the portfolio event publisher parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	GroupID      string        `mapstructure:"group_id"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// MinIOConfig holds the uploaded-document store parameters.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// LLMConfig holds the AI provider parameters.
type LLMConfig struct {
	Provider          string        `mapstructure:"provider"` // "gemini" | "anthropic" | "none"
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	AnthropicAPIKey   string        `mapstructure:"anthropic_api_key"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// ImportConfig holds document import parameters.
type ImportConfig struct {
	MaxDocumentBytes int64 `mapstructure:"max_document_bytes"`
	BatchConcurrency int   `mapstructure:"batch_concurrency"`
	HeuristicOnly    bool  `mapstructure:"heuristic_only"`
}

// AssistantConfig holds chat assistant parameters.
type AssistantConfig struct {
	ContextPatents int `mapstructure:"context_patents"`
	MaxHistory     int `mapstructure:"max_history"`
}

// AlertConfig holds annuity alert parameters.
type AlertConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// MetricsConfig holds Prometheus parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// Logging converts c into the logging package's constructor parameters.
func (c LogConfig) Logging() logging.LogConfig {
	out := logging.LogConfig{Level: c.Level, Format: c.Format}
	if c.Output != "" {
		out.OutputPaths = []string{c.Output}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Import    ImportConfig    `mapstructure:"import"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Alerts    AlertConfig     `mapstructure:"alerts"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate performs semantic validation of a defaulted Config and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: server.rate_limit_rps must be >= 0, got %v", c.Server.RateLimitRPS)
	}

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required for the postgres storage driver")
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required for the postgres storage driver")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required for the postgres storage driver")
		}
		switch c.Database.Driver {
		case "postgres", "pgx":
		default:
			return fmt.Errorf("config: database.driver %q is invalid; expected postgres|pgx", c.Database.Driver)
		}
	default:
		return fmt.Errorf("config: storage.driver %q is invalid; expected memory|postgres", c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
	}
	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required when minio is enabled")
	}

	switch c.LLM.Provider {
	case "gemini", "anthropic", "none":
	default:
		return fmt.Errorf("config: llm.provider %q is invalid; expected gemini|anthropic|none", c.LLM.Provider)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("config: llm.requests_per_minute must be >= 0, got %d", c.LLM.RequestsPerMinute)
	}

	if c.Import.BatchConcurrency < 1 {
		return fmt.Errorf("config: import.batch_concurrency must be >= 1, got %d", c.Import.BatchConcurrency)
	}
	if c.Alerts.WindowDays < 1 {
		return fmt.Errorf("config: alerts.window_days must be >= 1, got %d", c.Alerts.WindowDays)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// APIKey returns the key of the configured provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

//Personal.AI order the ending
