package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/PatentVault/internal/domain/patent"
)

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Date builds a UTC midnight time.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SamplePatent returns a fully populated Taiwanese invention patent.
func SamplePatent(id, name string) *patent.Patent {
	return &patent.Patent{
		ID:                 id,
		Name:               name,
		Patentee:           "台灣精密股份有限公司",
		Country:            patent.CountryTW,
		Status:             patent.StatusActive,
		Type:               patent.TypeInvention,
		AppNumber:          "112100001",
		PubNumber:          "I800001",
		AppDate:            "2023-03-15",
		PubDate:            "2024-01-01",
		Duration:           "2023-03-15 ~ 2043-03-15",
		AnnuityDate:        "2025-03-15",
		AnnuityYear:        3,
		Inventor:           "王小明",
		NotificationEmails: "ip@example.com, legal@example.com",
	}
}

// RecordingPublisher captures published events. Err, when set, is returned
// from every Publish call after the events are recorded.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []patent.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...patent.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Events returns a copy of the captured events.
func (p *RecordingPublisher) Events() []patent.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]patent.Event(nil), p.events...)
}

// Types lists the captured event types in order.
func (p *RecordingPublisher) Types() []patent.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]patent.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

//Personal.AI order the ending
