// Package service owns the per-browser-profile carousel machines and the
// unread badge. One machine exists per (principal, profile) pair; the badge is
// a cached count invalidated through the change notifier whenever any
// acknowledgment state changes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	notifmetrics "praxis/internal/notification/metrics"
	"praxis/internal/notification/readstate"
	"praxis/internal/notification/sequencer"
	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/audit"
	"praxis/pkg/platform/bus"
)

// UrgentLister supplies the visibility-filtered urgent candidates for a
// principal, newest-first and inside their validity window.
type UrgentLister interface {
	ListUrgentMessages(ctx context.Context, p models.Principal) ([]models.SystemMessage, error)
}

// AuditPublisher records acknowledgment actions.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

type machineKey struct {
	principal id.PrincipalID
	profile   id.ProfileID
}

// Service fronts the carousel machines and the unread badge for transports.
type Service struct {
	lister   UrgentLister
	seen     readstate.Store
	notifier *bus.Bus
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *notifmetrics.Metrics

	mu       sync.Mutex
	machines map[machineKey]*sequencer.Machine
	badges   map[machineKey]int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics(m *notifmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(lister UrgentLister, seen readstate.Store, notifier *bus.Bus, opts ...Option) (*Service, error) {
	if lister == nil {
		return nil, fmt.Errorf("urgent lister is required")
	}
	if seen == nil {
		return nil, fmt.Errorf("read-state store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier is required")
	}

	s := &Service{
		lister:   lister,
		seen:     seen,
		notifier: notifier,
		logger:   slog.Default(),
		machines: make(map[machineKey]*sequencer.Machine),
		badges:   make(map[machineKey]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Any acknowledgment change anywhere invalidates every cached badge;
	// counts are cheap to re-derive on the next read.
	notifier.On(readstate.EventAcknowledgmentChanged, func() {
		s.mu.Lock()
		clear(s.badges)
		s.mu.Unlock()
	})

	return s, nil
}

// principalLoader binds the shared lister to one principal for its machine.
type principalLoader struct {
	lister    UrgentLister
	principal models.Principal
}

func (l principalLoader) LoadUrgent(ctx context.Context) ([]models.SystemMessage, error) {
	return l.lister.ListUrgentMessages(ctx, l.principal)
}

func (s *Service) machineFor(principal models.Principal, profile id.ProfileID) (*sequencer.Machine, error) {
	if profile.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "browser profile is required")
	}

	key := machineKey{principal: principal.ID, profile: profile}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.machines[key]; ok {
		return m, nil
	}

	m, err := sequencer.New(
		principalLoader{lister: s.lister, principal: principal},
		s.seen,
		profile,
		principal,
		sequencer.WithLogger(s.logger),
		sequencer.WithAuditPublisher(s.auditor),
		sequencer.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create carousel machine")
	}
	s.machines[key] = m
	return m, nil
}

// Open starts a fresh carousel pass for the profile.
func (s *Service) Open(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error) {
	m, err := s.machineFor(principal, profile)
	if err != nil {
		return sequencer.State{}, err
	}
	return m.Open(ctx)
}

// Next acknowledges the presented message and advances.
func (s *Service) Next(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error) {
	m, err := s.machineFor(principal, profile)
	if err != nil {
		return sequencer.State{}, err
	}
	return m.Next(ctx)
}

// Previous steps back without touching acknowledgments.
func (s *Service) Previous(_ context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error) {
	m, err := s.machineFor(principal, profile)
	if err != nil {
		return sequencer.State{}, err
	}
	return m.Previous()
}

// DismissAll acknowledges everything remaining and closes the carousel.
func (s *Service) DismissAll(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error) {
	m, err := s.machineFor(principal, profile)
	if err != nil {
		return sequencer.State{}, err
	}
	return m.DismissAll(ctx)
}

// UnreadCount returns the number of visible urgent messages the profile has
// not acknowledged. Served from cache until an acknowledgment change event
// invalidates it.
func (s *Service) UnreadCount(ctx context.Context, principal models.Principal, profile id.ProfileID) (int, error) {
	if profile.IsEmpty() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "browser profile is required")
	}
	key := machineKey{principal: principal.ID, profile: profile}

	s.mu.Lock()
	if count, ok := s.badges[key]; ok {
		s.mu.Unlock()
		return count, nil
	}
	s.mu.Unlock()

	candidates, err := s.lister.ListUrgentMessages(ctx, principal)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "list urgent messages")
	}
	seenSet, err := s.seen.SeenSet(ctx, profile)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "load read-state")
	}

	count := 0
	for _, msg := range candidates {
		if !seenSet[msg.ID] {
			count++
		}
	}

	s.mu.Lock()
	s.badges[key] = count
	s.mu.Unlock()
	return count, nil
}
