package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/pkg/errors"
)

func TestNew_NotConfigured(t *testing.T) {
	ctx := context.Background()
	for _, cfg := range []config.LLMConfig{
		{Provider: ProviderNone, GeminiAPIKey: "k"},
		{Provider: ProviderGemini},
		{Provider: ProviderAnthropic, GeminiAPIKey: "k"},
		{},
	} {
		_, err := New(ctx, cfg, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestNew_Anthropic(t *testing.T) {
	p, err := New(context.Background(), config.LLMConfig{Provider: ProviderAnthropic, AnthropicAPIKey: "sk-test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p.Name())
}

func TestNew_Gemini(t *testing.T) {
	p, err := New(context.Background(), config.LLMConfig{Provider: ProviderGemini, GeminiAPIKey: "test-key"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p.Name())
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, newLimiter(0).Limit())

	l := newLimiter(60)
	assert.InDelta(t, 1.0, float64(l.Limit()), 1e-9)
	assert.Equal(t, 6, l.Burst())

	assert.Equal(t, 1, newLimiter(5).Burst())
}

func TestCallContext_CancelledWhileWaiting(t *testing.T) {
	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := callContext(ctx, l, time.Second)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRateLimit))
}

func TestCallContext_Timeout(t *testing.T) {
	ctx, cancel, err := callContext(context.Background(), nil, time.Minute)
	require.NoError(t, err)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

//Personal.AI order the ending
