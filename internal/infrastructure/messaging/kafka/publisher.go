package kafka

import (
	"context"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// BatchPublisher is the part of Producer used by EventPublisher.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, msgs []*Message) (*BatchPublishResult, error)
}

// EventPublisher sends portfolio events to one topic.
type EventPublisher struct {
	producer BatchPublisher
	topic    string
	logger   logging.Logger
}

// NewEventPublisher creates an EventPublisher.
func NewEventPublisher(producer BatchPublisher, topic string, logger logging.Logger) *EventPublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EventPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish writes events as one batch, keyed by patent ID.
func (p *EventPublisher) Publish(ctx context.Context, events ...patent.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]*Message, 0, len(events))
	for _, e := range events {
		env, err := NewEventEnvelope(e)
		if err != nil {
			return err
		}
		msg, err := env.ToMessage(p.topic, e.PatentID)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	res, err := p.producer.PublishBatch(ctx, msgs)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		first := res.Errors[0].Error
		p.logger.Warn("portfolio events not delivered",
			logging.Int("failed", res.Failed),
			logging.Int("succeeded", res.Succeeded),
			logging.Err(first))
		return errors.Wrap(first, errors.ErrCodeMessagingError, "failed to publish portfolio events")
	}
	return nil
}

//Personal.AI order the ending
