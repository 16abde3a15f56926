// Package assistant implements the portfolio chat assistant. Replies are
// always in-band: provider failures become a fixed apology, never an error.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/turtacn/PatentVault/internal/application/portfolio"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/internal/intelligence/llm"
)

const (
	// ReplyUnavailable is returned when the model answers with nothing.
	ReplyUnavailable = "抱歉，我現在無法回答您的問題。"
	// ReplyConnectionError is returned when the provider call fails.
	ReplyConnectionError = "連線錯誤，請確認網路狀態或 API 配置 (API Key)。"

	DefaultContextPatents = 10
	DefaultMaxHistory     = 20
)

// Lister supplies the portfolio records used as chat context.
type Lister interface {
	List(ctx context.Context, f portfolio.Filter) ([]*patent.Patent, error)
}

// Config bounds the prompt size.
type Config struct {
	ContextPatents int // records included in each question
	MaxHistory     int // turns kept, oldest dropped first
}

// Assistant keeps one conversation. It is safe for concurrent use; turns are
// serialized.
type Assistant struct {
	provider llm.Provider
	patents  Lister
	cfg      Config
	logger   logging.Logger

	mu      sync.Mutex
	history []llm.Message
}

// New creates an assistant. provider may be nil, in which case every
// question is answered with ReplyConnectionError.
func New(provider llm.Provider, patents Lister, cfg Config, logger logging.Logger) *Assistant {
	if cfg.ContextPatents <= 0 {
		cfg.ContextPatents = DefaultContextPatents
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Assistant{provider: provider, patents: patents, cfg: cfg, logger: logger.Named("assistant")}
}

// Ask answers message in the context of the current portfolio.
func (a *Assistant) Ask(ctx context.Context, message string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provider == nil {
		return ReplyConnectionError
	}

	prompt := BuildPrompt(a.portfolioContext(ctx), message)
	reply, err := a.provider.Chat(ctx, a.history, prompt)
	if err != nil {
		a.logger.Warn("chat request failed", logging.String("provider", a.provider.Name()), logging.Err(err))
		return ReplyConnectionError
	}
	if strings.TrimSpace(reply) == "" {
		return ReplyUnavailable
	}

	a.history = append(a.history,
		llm.Message{Role: llm.RoleUser, Text: prompt},
		llm.Message{Role: llm.RoleModel, Text: reply},
	)
	if over := len(a.history) - a.cfg.MaxHistory; over > 0 {
		a.history = append([]llm.Message(nil), a.history[over:]...)
	}
	return reply
}

// Reset forgets the conversation.
func (a *Assistant) Reset() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []llm.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]llm.Message(nil), a.history...)
}

func (a *Assistant) portfolioContext(ctx context.Context) string {
	if a.patents == nil {
		return ""
	}
	ps, err := a.patents.List(ctx, portfolio.Filter{})
	if err != nil {
		a.logger.Warn("loading chat context failed", logging.Err(err))
		return ""
	}
	return FormatContext(ps, a.cfg.ContextPatents)
}

// FormatContext renders up to limit records, one per line.
func FormatContext(ps []*patent.Patent, limit int) string {
	if limit > 0 && len(ps) > limit {
		ps = ps[:limit]
	}
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = fmt.Sprintf("[ID: %s, 名稱: %s, 狀態: %s, 國家: %s, 到期日: %s]",
			p.ID, p.Name, p.Status, p.Country, p.AnnuityDate)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt prefixes message with the portfolio context when there is one.
func BuildPrompt(portfolioContext, message string) string {
	if portfolioContext == "" {
		return message
	}
	return "當前專利上下文：\n" + portfolioContext + "\n\n用戶問題：" + message
}

//Personal.AI order the ending
