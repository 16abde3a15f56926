package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultServerPort     = 8080
	DefaultMaxBodySize    = 20 << 20
	DefaultRateLimitBurst = 20

	DefaultStorageDriver = "memory"

	DefaultDBDriver = "postgres"
	DefaultDBHost   = "localhost"
	DefaultDBPort   = 5432
	DefaultDBName   = "patentvault"

	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "patentvault:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "patentvault.events"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "patent-documents"

	DefaultLLMProvider       = "gemini"
	DefaultGeminiModel       = "gemini-3-flash-preview"
	DefaultAnthropicModel    = "claude-sonnet-4-5"
	DefaultLLMMaxTokens      = 4096
	DefaultRequestsPerMinute = 30

	DefaultMaxDocumentBytes = 15 << 20
	DefaultBatchConcurrency = 4

	DefaultContextPatents = 10
	DefaultMaxHistory     = 20

	DefaultAlertWindowDays = 90

	DefaultMetricsNamespace = "patentvault"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills zero-value fields in cfg. Explicitly set values win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// ── Storage / Database ────────────────────────────────────────────────────
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDBDriver
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 24 * time.Hour
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = "patentvault"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "patentvault-events"
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── LLM ───────────────────────────────────────────────────────────────────
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = DefaultLLMProvider
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "anthropic":
			cfg.LLM.Model = DefaultAnthropicModel
		default:
			cfg.LLM.Model = DefaultGeminiModel
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = DefaultLLMMaxTokens
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.RequestsPerMinute == 0 {
		cfg.LLM.RequestsPerMinute = DefaultRequestsPerMinute
	}

	// ── Import / Assistant / Alerts ───────────────────────────────────────────
	if cfg.Import.MaxDocumentBytes == 0 {
		cfg.Import.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if cfg.Import.BatchConcurrency == 0 {
		cfg.Import.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.Assistant.ContextPatents == 0 {
		cfg.Assistant.ContextPatents = DefaultContextPatents
	}
	if cfg.Assistant.MaxHistory == 0 {
		cfg.Assistant.MaxHistory = DefaultMaxHistory
	}
	if cfg.Alerts.WindowDays == 0 {
		cfg.Alerts.WindowDays = DefaultAlertWindowDays
	}

	// ── Metrics / Log ─────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Default returns a fully defaulted Config, suitable for running without any
// configuration file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
