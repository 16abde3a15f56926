// Package portfolio provides the portfolio management application service:
// record lifecycle, search, statistics and annuity alerts.
package portfolio

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// StatusAll disables status filtering.
const StatusAll = "ALL"

// Service is used by HTTP handlers, the CLI and the import pipeline.
type Service interface {
	List(ctx context.Context, f Filter) ([]*patent.Patent, error)
	Get(ctx context.Context, id string) (*patent.Patent, error)
	Create(ctx context.Context, p *patent.Patent) (*patent.Patent, error)
	Import(ctx context.Context, records ...*patent.Patent) ([]*patent.Patent, error)
	Update(ctx context.Context, p *patent.Patent) (*patent.Patent, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	Alerts(ctx context.Context, now time.Time, withinDays int) ([]Alert, error)
	AlertCount(ctx context.Context, now time.Time, withinDays int) (int, error)
}

// Filter narrows List results.
type Filter struct {
	Search string
	Status string // empty or StatusAll for no filter
}

// Matches applies the dashboard search rules: name and patentee match
// case-insensitively, appNumber and country match as typed.
func (f Filter) Matches(p *patent.Patent) bool {
	if f.Status != "" && f.Status != StatusAll && string(p.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	lower := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Name), lower) ||
		strings.Contains(p.AppNumber, f.Search) ||
		strings.Contains(string(p.Country), f.Search) ||
		strings.Contains(strings.ToLower(p.Patentee), lower)
}

// EventPublisher receives portfolio change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, events ...patent.Event) error
}

// Option customizes the service.
type Option func(*serviceImpl)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// WithIDGenerator overrides the uuid-based ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *serviceImpl) { s.newID = gen }
}

type serviceImpl struct {
	repo      patent.Repository
	publisher EventPublisher
	logger    logging.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates the portfolio service. publisher may be nil.
func NewService(repo patent.Repository, publisher EventPublisher, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("portfolio"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *serviceImpl) List(ctx context.Context, f Filter) ([]*patent.Patent, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*patent.Patent, 0, len(all))
	for _, p := range all {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (*patent.Patent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.InvalidParam("patent id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *serviceImpl) Create(ctx context.Context, p *patent.Patent) (*patent.Patent, error) {
	if p == nil {
		return nil, errors.InvalidParam("patent is required")
	}
	now := s.now()
	rec, err := s.prepare(p, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("patent created", logging.String("id", rec.ID), logging.String("name", rec.Name))
	s.publish(ctx, patent.NewEvent(patent.EventCreated, rec, now))
	return rec, nil
}

// Import stores records so that they appear at the top of the list in the
// order given. Records are stored all together or not at all.
func (s *serviceImpl) Import(ctx context.Context, records ...*patent.Patent) ([]*patent.Patent, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeImportEmptyInput, "no records to import")
	}
	now := s.now()
	prepared := make([]*patent.Patent, 0, len(records))
	ids := make(map[string]struct{}, len(records))
	for i, p := range records {
		if p == nil {
			return nil, errors.InvalidParam("nil record in import batch")
		}
		rec, err := s.prepare(p, now)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "import record").WithDetail(recordLabel(i, p))
		}
		if _, dup := ids[rec.ID]; dup {
			return nil, errors.New(errors.ErrCodePatentAlreadyExists, "duplicate patent id in import batch").WithDetail(rec.ID)
		}
		ids[rec.ID] = struct{}{}
		prepared = append(prepared, rec)
	}

	if err := s.repo.SaveAll(ctx, prepared...); err != nil {
		return nil, err
	}
	events := make([]patent.Event, 0, len(prepared))
	for _, rec := range prepared {
		events = append(events, patent.NewEvent(patent.EventImported, rec, now))
	}
	s.logger.Info("patents imported", logging.Int("count", len(prepared)))
	s.publish(ctx, events...)
	return prepared, nil
}

func (s *serviceImpl) Update(ctx context.Context, p *patent.Patent) (*patent.Patent, error) {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return nil, errors.InvalidParam("patent id is required")
	}
	existing, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := p.Clone()
	rec.Name = strings.TrimSpace(rec.Name)
	rec.ApplyDefaults()
	if rec.AppDate != existing.AppDate || rec.Type != existing.Type {
		rec.ApplySchedule(now)
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("patent updated", logging.String("id", rec.ID))
	s.publish(ctx, patent.NewEvent(patent.EventUpdated, rec, now))
	return rec, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("patent deleted", logging.String("id", id))
	s.publish(ctx, patent.NewEvent(patent.EventDeleted, existing, s.now()))
	return nil
}

// prepare returns a validated copy of p ready to be stored.
func (s *serviceImpl) prepare(p *patent.Patent, now time.Time) (*patent.Patent, error) {
	rec := p.Clone()
	rec.Name = strings.TrimSpace(rec.Name)
	rec.ApplyDefaults()
	rec.FillSchedule(now)
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	rec.CreatedAt, rec.UpdatedAt = now, now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// publish never fails the caller; delivery problems are logged.
func (s *serviceImpl) publish(ctx context.Context, events ...patent.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing portfolio events failed",
			logging.String("type", string(events[0].Type)),
			logging.Int("count", len(events)),
			logging.Err(err))
	}
}

func recordLabel(i int, p *patent.Patent) string {
	if p.Name != "" {
		return p.Name
	}
	return "#" + strconv.Itoa(i+1)
}

//Personal.AI order the ending
