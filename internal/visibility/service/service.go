package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"praxis/internal/visibility/membership"
	"praxis/internal/visibility/metrics"
	"praxis/internal/visibility/models"
	"praxis/internal/visibility/service/filter"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/audit"
)

// RosterStore provides the principal roster.
type RosterStore interface {
	GetByIdentity(ctx context.Context, identity string) (models.Principal, error)
	ListAll(ctx context.Context) ([]models.Principal, error)
}

// RecordStore returns candidate record sets before visibility filtering;
// filtering happens in this service, not in the query.
type RecordStore interface {
	ListMessages(ctx context.Context) ([]models.SystemMessage, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListPlans(ctx context.Context) ([]models.TrainingPlan, error)
	ListLogs(ctx context.Context) ([]models.TrainingLog, error)
	ListReminders(ctx context.Context) ([]models.TrainingReminder, error)
}

// AuditPublisher records degraded listing passes.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// Service applies the shared visibility rules to every listing feature.
// One resolver function instead of per-page role branching.
type Service struct {
	roster  RosterStore
	records RecordStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

// WithClock overrides the time source for date-window checks in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(roster RosterStore, records RecordStore, opts ...Option) (*Service, error) {
	if roster == nil {
		return nil, fmt.Errorf("roster store is required")
	}
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}

	s := &Service{
		roster:  roster,
		records: records,
		logger:  slog.Default(),
		tracer:  otel.Tracer("praxis/visibility"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// buildIndex fetches the roster snapshot a company_manager needs for
// company-scoped visibility. Non-managers never pay for the roster scan.
// A roster failure degrades to a nil index (ownership-only visibility) and
// never fails the listing; the degradation is logged and audited so
// operators notice.
func (s *Service) buildIndex(ctx context.Context, p models.Principal) *membership.Index {
	if p.Role != models.RoleCompanyManager {
		return nil
	}

	roster, err := s.roster.ListAll(ctx)
	if err != nil {
		s.logger.Warn("membership index unavailable, serving ownership-only visibility",
			"principal", p.ID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementIndexDegraded()
		}
		if s.auditor != nil {
			s.auditor.Publish(ctx, audit.Event{
				PrincipalID: p.ID,
				Action:      string(audit.EventMembershipIndexDegrade),
				Reason:      err.Error(),
			})
		}
		return nil
	}
	return membership.Build(roster)
}

// fetch runs the record query and the roster scan in parallel. Only the
// record query can fail the listing.
func fetch[T any](ctx context.Context, s *Service, p models.Principal, list func(context.Context) ([]T, error)) ([]T, *membership.Index, error) {
	var (
		items []T
		idx   *membership.Index
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx)
		return err
	})
	g.Go(func() error {
		idx = s.buildIndex(gctx, p)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch candidate records")
	}
	return items, idx, nil
}

func (s *Service) observe(role models.Role, total, admitted int) {
	if s.metrics == nil {
		return
	}
	for range admitted {
		s.metrics.ObserveDecision(string(role), true)
	}
	for range total - admitted {
		s.metrics.ObserveDecision(string(role), false)
	}
}

// ListMessages returns the system messages the principal may see,
// newest-created-first.
func (s *Service) ListMessages(ctx context.Context, p models.Principal) ([]models.SystemMessage, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListMessages")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListMessages)
	if err != nil {
		return nil, err
	}
	admitted := filter.Admit(p, all, idx)
	s.observe(p.Role, len(all), len(admitted))
	return admitted, nil
}

// ListUrgentMessages returns the admitted urgent messages whose validity
// window contains now, newest-created-first. This is the carousel's and the
// unread badge's candidate set; read-state is applied by the caller.
func (s *Service) ListUrgentMessages(ctx context.Context, p models.Principal) ([]models.SystemMessage, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListUrgentMessages")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListMessages)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidates := make([]models.SystemMessage, 0, len(all))
	for _, m := range all {
		if m.Priority == models.PriorityUrgent && m.ActiveAt(now) {
			candidates = append(candidates, m)
		}
	}
	admitted := filter.Admit(p, candidates, idx)
	s.observe(p.Role, len(candidates), len(admitted))
	return admitted, nil
}

// ListClients returns the client roster entries the principal may see.
func (s *Service) ListClients(ctx context.Context, p models.Principal) ([]models.Client, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListClients")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListClients)
	if err != nil {
		return nil, err
	}
	admitted := filter.Admit(p, all, idx)
	s.observe(p.Role, len(all), len(admitted))
	return admitted, nil
}

// ListPlans returns the training plans the principal may see.
func (s *Service) ListPlans(ctx context.Context, p models.Principal) ([]models.TrainingPlan, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListPlans")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListPlans)
	if err != nil {
		return nil, err
	}
	admitted := filter.Admit(p, all, idx)
	s.observe(p.Role, len(all), len(admitted))
	return admitted, nil
}

// ListLogs returns the training logs the principal may see.
func (s *Service) ListLogs(ctx context.Context, p models.Principal) ([]models.TrainingLog, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListLogs")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListLogs)
	if err != nil {
		return nil, err
	}
	admitted := filter.Admit(p, all, idx)
	s.observe(p.Role, len(all), len(admitted))
	return admitted, nil
}

// ListReminders returns the training reminders the principal may see.
func (s *Service) ListReminders(ctx context.Context, p models.Principal) ([]models.TrainingReminder, error) {
	ctx, span := s.tracer.Start(ctx, "visibility.ListReminders")
	defer span.End()

	all, idx, err := fetch(ctx, s, p, s.records.ListReminders)
	if err != nil {
		return nil, err
	}
	admitted := filter.Admit(p, all, idx)
	s.observe(p.Role, len(all), len(admitted))
	return admitted, nil
}
