package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  allowed_origins: ["http://localhost:5173"]
  rate_limit_rps: 5
storage:
  driver: postgres
  seed_file: ./seed.yaml
database:
  host: db
  user: vault
  password: secret
  db_name: patents
redis:
  enabled: true
  addr: cache:6379
  default_ttl: 1h
llm:
  provider: anthropic
  timeout: 15s
alerts:
  window_days: 60
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "./seed.yaml", cfg.Storage.SeedFile)
	assert.Equal(t, "patents", cfg.Database.DBName)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.DefaultTTL)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, DefaultAnthropicModel, cfg.LLM.Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 60, cfg.Alerts.WindowDays)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "llm:\n  provider: openai\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PATENTVAULT_SERVER_PORT", "7070")
	t.Setenv("PATENTVAULT_ALERTS_WINDOW_DAYS", "45")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 45, cfg.Alerts.WindowDays)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PATENTVAULT_LLM_PROVIDER", "none")
	t.Setenv("PATENTVAULT_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PATENTVAULT_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadFromEnv_LegacyAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.LLM.GeminiAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PATENTVAULT_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PATENTVAULT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("PATENTVAULT_TEST_DOTENV"))
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(Config{}), "")
	assert.Contains(t, keys, "server.port")
	assert.Contains(t, keys, "llm.gemini_api_key")
	assert.Contains(t, keys, "redis.default_ttl")
	assert.NotContains(t, keys, "server")
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

//Personal.AI order the ending
