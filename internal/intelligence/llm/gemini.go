package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// ContentGenerator is the subset of *genai.Models used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls Google Gemini models.
type GeminiProvider struct {
	models    ContentGenerator
	model     string
	maxTokens int32
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    logging.Logger
}

// NewGeminiProvider creates a Gemini client for apiKey.
func NewGeminiProvider(ctx context.Context, apiKey string, cfg config.LLMConfig, limiter *rate.Limiter, logger logging.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAINotConfigured, "creating gemini client")
	}
	return NewGeminiProviderWithModels(client.Models, cfg, limiter, logger), nil
}

// NewGeminiProviderWithModels wires an existing generator, typically a fake in tests.
func NewGeminiProviderWithModels(models ContentGenerator, cfg config.LLMConfig, limiter *rate.Limiter, logger logging.Logger) *GeminiProvider {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &GeminiProvider{
		models:    models,
		model:     model,
		maxTokens: int32(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		limiter:   limiter,
		logger:    logger.Named("gemini"),
	}
}

func (g *GeminiProvider) Name() string { return ProviderGemini }

// Chat sends history followed by message.
func (g *GeminiProvider) Chat(ctx context.Context, history []Message, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))
	return g.generate(ctx, "chat", contents, g.baseConfig())
}

// ParseText asks for a JSON patent record extracted from text.
func (g *GeminiProvider) ParseText(ctx context.Context, text string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(ParseTextPrompt(text), genai.RoleUser)}
	return g.generate(ctx, "parse_text", contents, g.jsonConfig())
}

// ParseFile sends the document inline; mimeType defaults to application/pdf.
func (g *GeminiProvider) ParseFile(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeAIInputInvalid, "empty document")
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(parseFilePrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return g.generate(ctx, "parse_file", contents, g.jsonConfig())
}

func (g *GeminiProvider) baseConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = g.maxTokens
	}
	return cfg
}

func (g *GeminiProvider) jsonConfig() *genai.GenerateContentConfig {
	cfg := g.baseConfig()
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = PatentSchema()
	return cfg
}

func (g *GeminiProvider) generate(ctx context.Context, op string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	callCtx, cancel, err := callContext(ctx, g.limiter, g.timeout)
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	resp, err := g.models.GenerateContent(callCtx, g.model, contents, cfg)
	if err != nil {
		g.logger.Warn("gemini request failed",
			logging.String("op", op),
			logging.String("model", g.model),
			logging.Err(err))
		return "", errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "gemini "+op)
	}
	text := responseText(resp)
	g.logger.Debug("gemini request completed",
		logging.String("op", op),
		logging.Int("chars", len(text)),
		logging.Duration("elapsed", time.Since(start)))
	return text, nil
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

//Personal.AI order the ending
