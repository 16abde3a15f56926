package kafka

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

// EventHandler processes one decoded envelope. A returned error is logged
// and the message is still committed.
type EventHandler func(ctx context.Context, env *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads portfolio events from the event topic.
type Consumer struct {
	reader  ReaderInterface
	logger  logging.Logger
	running atomic.Bool

	consumed atomic.Int64
	failed   atomic.Int64
}

// NewConsumer creates a group consumer for the event topic.
func NewConsumer(cfg config.KafkaConfig, fromStart bool, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.Topic == "" {
		return nil, errors.New(errors.ErrCodeValidation, "topic required")
	}
	start := kafka.LastOffset
	if fromStart {
		start = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10 << 20,
		MaxWait:        time.Second,
		StartOffset:    start,
		CommitInterval: 0,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true, ClientID: cfg.ClientID},
	})
	return NewConsumerWithReader(reader, logger), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{reader: r, logger: logger.Named("kafka_consumer")}
}

// Run fetches messages until ctx is done, passing each decoded envelope to
// handle. Undecodable messages are committed and skipped.
func (c *Consumer) Run(ctx context.Context, handle EventHandler) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to fetch message")
		}
		c.consumed.Add(1)

		env, err := DecodeEnvelope(msg)
		if err == nil {
			err = handle(ctx, env)
		}
		if err != nil {
			c.failed.Add(1)
			c.logger.Warn("event handling failed",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to commit message")
		}
	}
}

// Counts reports consumed and failed message totals.
func (c *Consumer) Counts() (consumed, failed int64) {
	return c.consumed.Load(), c.failed.Load()
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

//Personal.AI order the ending
