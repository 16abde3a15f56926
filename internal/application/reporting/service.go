// Package reporting renders portfolio exports and annuity reminder notices.
package reporting

import (
	"context"
	"io"
	"time"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// EventPublisher receives reminder notifications.
type EventPublisher interface {
	Publish(ctx context.Context, events ...patent.Event) error
}

// Service exposes exports and reminders to the HTTP and CLI layers.
type Service interface {
	ExportXLSX(w io.Writer, ps []*patent.Patent) error
	ReminderPreview(p *patent.Patent, now time.Time) (Reminder, error)
	SendReminder(ctx context.Context, p *patent.Patent, now time.Time) (*SendResult, error)
}

type serviceImpl struct {
	publisher EventPublisher
	logger    logging.Logger
}

// NewService creates the reporting service. publisher may be nil.
func NewService(publisher EventPublisher, logger logging.Logger) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{publisher: publisher, logger: logger.Named("reporting")}
}

func (s *serviceImpl) ExportXLSX(w io.Writer, ps []*patent.Patent) error {
	if err := ExportXLSX(w, ps); err != nil {
		s.logger.Error("export failed", logging.Int("rows", len(ps)), logging.Err(err))
		return err
	}
	s.logger.Info("portfolio exported", logging.Int("rows", len(ps)))
	return nil
}

func (s *serviceImpl) ReminderPreview(p *patent.Patent, now time.Time) (Reminder, error) {
	r, err := NewReminder(p, now)
	if err != nil {
		s.logger.Error("reminder rendering failed", logging.Err(err))
	}
	return r, err
}

// SendReminder simulates delivery. Nothing leaves the process: the reminder
// is logged and a reminder.sent event is published. A record without
// recipients still succeeds and is reported as not configured.
func (s *serviceImpl) SendReminder(ctx context.Context, p *patent.Patent, now time.Time) (*SendResult, error) {
	if p == nil {
		return nil, errors.InvalidParam("patent is required")
	}
	r, err := s.ReminderPreview(p, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder sent (simulated)",
		logging.String("id", p.ID),
		logging.String("subject", r.Subject),
		logging.Int("recipients", len(r.To)),
		logging.Bool("configured", r.Configured))

	if s.publisher != nil {
		ev := patent.NewEvent(patent.EventReminderSent, p, now)
		ev.Recipients = r.To
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("publishing reminder event failed", logging.String("id", p.ID), logging.Err(err))
		}
	}
	return &SendResult{Reminder: r, Recipients: r.To, Message: sendMessage(p)}, nil
}

//Personal.AI order the ending
