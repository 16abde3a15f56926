// Package llm talks to hosted language models for portfolio chat and
// structured patent parsing.
package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Provider is a hosted model able to chat and to turn patent documents into
// JSON. All methods return the model's raw text.
type Provider interface {
	Name() string
	Chat(ctx context.Context, history []Message, message string) (string, error)
	ParseText(ctx context.Context, text string) (string, error)
	ParseFile(ctx context.Context, data []byte, mimeType string) (string, error)
}

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"

	defaultMIMEType = "application/pdf"
)

var (
	// ErrNotConfigured is returned by New when no provider or API key is set.
	ErrNotConfigured = errors.New(errors.ErrCodeAINotConfigured, "AI provider is not configured")
	// ErrFileInputUnsupported is returned by providers that cannot read binary documents.
	ErrFileInputUnsupported = errors.New(errors.ErrCodeAIUnsupported, "provider does not accept document input")
)

// New builds the provider selected by cfg.
func New(ctx context.Context, cfg config.LLMConfig, logger logging.Logger) (Provider, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	key := strings.TrimSpace(cfg.APIKey())
	if cfg.Provider == ProviderNone || cfg.Provider == "" || key == "" {
		return nil, ErrNotConfigured
	}

	limiter := newLimiter(cfg.RequestsPerMinute)
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(ctx, key, cfg, limiter, logger)
	case ProviderAnthropic:
		return NewAnthropicProvider(key, cfg, limiter, logger), nil
	default:
		return nil, errors.New(errors.ErrCodeAINotConfigured, "unknown AI provider").WithDetail(cfg.Provider)
	}
}

// newLimiter paces outgoing calls to rpm requests per minute. A non-positive
// rpm yields an unlimited limiter.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

// callContext waits for the limiter and applies the per-call timeout.
func callContext(ctx context.Context, limiter *rate.Limiter, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeTooManyRequests, "waiting for AI rate limiter")
		}
	}
	if timeout <= 0 {
		c, cancel := context.WithCancel(ctx)
		return c, cancel, nil
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	return c, cancel, nil
}

//Personal.AI order the ending
