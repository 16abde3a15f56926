package llm

import (
	"context"
	"time"
)

// CallObserver receives the outcome of every provider call.
type CallObserver interface {
	ObserveLLMCall(provider, operation string, err error, elapsed time.Duration)
}

type instrumented struct {
	Provider
	obs CallObserver
}

// Instrument reports each call made through p to obs. A nil observer
// returns p unchanged.
func Instrument(p Provider, obs CallObserver) Provider {
	if p == nil || obs == nil {
		return p
	}
	return &instrumented{Provider: p, obs: obs}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.obs.ObserveLLMCall(i.Name(), op, err, time.Since(start))
}

func (i *instrumented) Chat(ctx context.Context, history []Message, message string) (string, error) {
	start := time.Now()
	out, err := i.Provider.Chat(ctx, history, message)
	i.observe("chat", start, err)
	return out, err
}

func (i *instrumented) ParseText(ctx context.Context, text string) (string, error) {
	start := time.Now()
	out, err := i.Provider.ParseText(ctx, text)
	i.observe("parse_text", start, err)
	return out, err
}

func (i *instrumented) ParseFile(ctx context.Context, data []byte, mimeType string) (string, error) {
	start := time.Now()
	out, err := i.Provider.ParseFile(ctx, data, mimeType)
	i.observe("parse_file", start, err)
	return out, err
}

//Personal.AI order the ending
