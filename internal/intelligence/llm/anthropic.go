package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// Messager is the subset of the Anthropic messages service used here.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider calls Claude models. Claude receives the same prompts as
// Gemini but without a response schema, so the JSON shape is spelled out in
// the prompt.
type AnthropicProvider struct {
	messages  Messager
	model     string
	maxTokens int64
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    logging.Logger
}

// NewAnthropicProvider creates a Claude client for apiKey.
func NewAnthropicProvider(apiKey string, cfg config.LLMConfig, limiter *rate.Limiter, logger logging.Logger) *AnthropicProvider {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicProviderWithMessager(&c.Messages, cfg, limiter, logger)
}

// NewAnthropicProviderWithMessager wires an existing messages service.
func NewAnthropicProviderWithMessager(m Messager, cfg config.LLMConfig, limiter *rate.Limiter, logger logging.Logger) *AnthropicProvider {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = config.DefaultAnthropicModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = config.DefaultLLMMaxTokens
	}
	return &AnthropicProvider{
		messages:  m,
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
		limiter:   limiter,
		logger:    logger.Named("anthropic"),
	}
}

func (a *AnthropicProvider) Name() string { return ProviderAnthropic }

// Chat sends history followed by message.
func (a *AnthropicProvider) Chat(ctx context.Context, history []Message, message string) (string, error) {
	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		if m.Role == RoleModel {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
			continue
		}
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))
	return a.send(ctx, "chat", msgs)
}

// ParseText asks for a JSON patent record extracted from text.
func (a *AnthropicProvider) ParseText(ctx context.Context, text string) (string, error) {
	prompt := ParseTextPrompt(text) + jsonOnlySuffix
	return a.send(ctx, "parse_text", []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
}

// ParseFile is not offered; callers extract the document text and use ParseText.
func (a *AnthropicProvider) ParseFile(context.Context, []byte, string) (string, error) {
	return "", ErrFileInputUnsupported
}

func (a *AnthropicProvider) send(ctx context.Context, op string, msgs []anthropic.MessageParam) (string, error) {
	callCtx, cancel, err := callContext(ctx, a.limiter, a.timeout)
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	resp, err := a.messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemInstruction}},
		Messages:  msgs,
	})
	if err != nil {
		a.logger.Warn("anthropic request failed",
			logging.String("op", op),
			logging.String("model", a.model),
			logging.Err(err))
		return "", errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "anthropic "+op)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	a.logger.Debug("anthropic request completed",
		logging.String("op", op),
		logging.Int("chars", sb.Len()),
		logging.Duration("elapsed", time.Since(start)))
	return sb.String(), nil
}

//Personal.AI order the ending
