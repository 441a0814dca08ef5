// Package sequencer drives the one-at-a-time presentation of unseen urgent
// messages: an explicit finite-state machine with pure-ish transition methods
// instead of ad hoc view state.
package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	notifmetrics "praxis/internal/notification/metrics"
	"praxis/internal/notification/readstate"
	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/audit"
	"praxis/pkg/requestcontext"
)

// Phase enumerates the machine states.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhasePresenting Phase = "presenting"
	PhaseClosed     Phase = "closed"
)

// State is a read-only snapshot of the machine.
type State struct {
	Phase  Phase
	Queue  []id.MessageID
	Cursor int
	// Current is the message under the cursor while presenting, nil otherwise.
	Current *models.SystemMessage
}

// Loader produces the candidate queue for a load pass: urgent messages the
// principal may see, inside their validity window, ordered newest-first.
// Unseen filtering is the machine's job since it owns the read-state.
type Loader interface {
	LoadUrgent(ctx context.Context) ([]models.SystemMessage, error)
}

// AuditPublisher records acknowledgment actions.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// Machine is one carousel session for one browser profile.
//
// The queue order is fixed at the Loading -> Presenting transition and never
// re-sorted while presenting; a fresh queue is only computed by a new Open
// pass. Overlapping Open passes are fenced by a generation counter so only
// the most recently initiated pass may transition the machine
// (last-write-wins), keeping a stale slow fetch from resurrecting an
// already-dismissed queue.
type Machine struct {
	mu     sync.Mutex
	phase  Phase
	queue  []models.SystemMessage
	cursor int
	gen    uint64

	loader    Loader
	seen      readstate.Store
	profile   id.ProfileID
	principal models.Principal

	logger  *slog.Logger
	auditor AuditPublisher
	metrics *notifmetrics.Metrics
}

type Option func(*Machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(m *Machine) { m.auditor = publisher }
}

func WithMetrics(metrics *notifmetrics.Metrics) Option {
	return func(m *Machine) { m.metrics = metrics }
}

// New creates an idle machine for the given profile and principal.
func New(loader Loader, seen readstate.Store, profile id.ProfileID, principal models.Principal, opts ...Option) (*Machine, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if seen == nil {
		return nil, fmt.Errorf("read-state store is required")
	}

	m := &Machine{
		phase:     PhaseIdle,
		loader:    loader,
		seen:      seen,
		profile:   profile,
		principal: principal,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Open runs a load pass: fetch candidates, drop already-seen ids, and either
// start presenting at the head of the queue or settle back to Idle. Safe to
// call from any phase; each call is a fresh pass.
func (m *Machine) Open(ctx context.Context) (State, error) {
	m.mu.Lock()
	m.phase = PhaseLoading
	m.queue = nil
	m.cursor = 0
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	candidates, err := m.loader.LoadUrgent(ctx)
	if err != nil {
		m.settle(gen, nil)
		return m.State(), dErrors.Wrap(err, dErrors.CodeInternal, "load urgent messages")
	}

	seenSet, err := m.seen.SeenSet(ctx, m.profile)
	if err != nil {
		m.settle(gen, nil)
		return m.State(), dErrors.Wrap(err, dErrors.CodeInternal, "load read-state")
	}

	queue := make([]models.SystemMessage, 0, len(candidates))
	for _, msg := range candidates {
		if !seenSet[msg.ID] {
			queue = append(queue, msg)
		}
	}

	m.settle(gen, queue)
	return m.State(), nil
}

// settle finishes a load pass unless a newer pass has started since.
func (m *Machine) settle(gen uint64, queue []models.SystemMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return
	}
	if len(queue) == 0 {
		m.phase = PhaseIdle
		m.queue = nil
		m.cursor = 0
		return
	}
	m.phase = PhasePresenting
	m.queue = queue
	m.cursor = 0
	if m.metrics != nil {
		m.metrics.ObserveQueueLength(len(queue))
	}
}

// Next acknowledges the current message and advances. Advancing past the end
// closes the machine.
func (m *Machine) Next(ctx context.Context) (State, error) {
	m.mu.Lock()
	if m.phase != PhasePresenting {
		m.mu.Unlock()
		return m.State(), dErrors.Newf(dErrors.CodeInvariantViolation, "next is not valid in phase %s", m.phase)
	}
	gen := m.gen
	current := m.queue[m.cursor]
	m.mu.Unlock()

	// Mark first; if read-state persistence fails the cursor stays put so the
	// message is not silently skipped.
	if err := m.seen.MarkSeen(ctx, m.profile, current.ID); err != nil {
		return m.State(), dErrors.Wrap(err, dErrors.CodeInternal, "mark message seen")
	}
	m.publishAck(ctx, audit.EventMessageAcknowledged, current.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.phase != PhasePresenting {
		// A newer pass took over while marking; its state wins.
		return m.snapshotLocked(), nil
	}
	m.cursor++
	if m.cursor == len(m.queue) {
		m.closeLocked()
	}
	return m.snapshotLocked(), nil
}

// Previous steps back without touching read-state: navigating backward never
// consumes nor restores acknowledgments.
func (m *Machine) Previous() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhasePresenting {
		return m.snapshotLocked(), dErrors.Newf(dErrors.CodeInvariantViolation, "previous is not valid in phase %s", m.phase)
	}
	if m.cursor > 0 {
		m.cursor--
	}
	return m.snapshotLocked(), nil
}

// DismissAll acknowledges every remaining queued message in one batch and
// closes immediately.
func (m *Machine) DismissAll(ctx context.Context) (State, error) {
	m.mu.Lock()
	if m.phase != PhasePresenting {
		m.mu.Unlock()
		return m.State(), dErrors.Newf(dErrors.CodeInvariantViolation, "dismiss-all is not valid in phase %s", m.phase)
	}
	gen := m.gen
	remaining := make([]id.MessageID, 0, len(m.queue)-m.cursor)
	for _, msg := range m.queue[m.cursor:] {
		remaining = append(remaining, msg.ID)
	}
	m.mu.Unlock()

	if err := m.seen.MarkSeenAll(ctx, m.profile, remaining); err != nil {
		return m.State(), dErrors.Wrap(err, dErrors.CodeInternal, "mark messages seen")
	}
	m.publishAck(ctx, audit.EventMessagesDismissedAll, "")

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen {
		m.closeLocked()
	}
	return m.snapshotLocked(), nil
}

// State returns a snapshot safe to hand to transports.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) closeLocked() {
	m.phase = PhaseClosed
	m.queue = nil
	m.cursor = 0
}

func (m *Machine) snapshotLocked() State {
	st := State{Phase: m.phase, Cursor: m.cursor}
	if len(m.queue) > 0 {
		st.Queue = make([]id.MessageID, len(m.queue))
		for i, msg := range m.queue {
			st.Queue[i] = msg.ID
		}
	}
	if m.phase == PhasePresenting && m.cursor < len(m.queue) {
		current := m.queue[m.cursor]
		st.Current = &current
	}
	return st
}

func (m *Machine) publishAck(ctx context.Context, action audit.AuditEvent, message id.MessageID) {
	if m.metrics != nil {
		switch action {
		case audit.EventMessageAcknowledged:
			m.metrics.IncrementAcknowledged()
		case audit.EventMessagesDismissedAll:
			m.metrics.IncrementDismissedAll()
		}
	}
	if m.auditor == nil {
		return
	}
	m.auditor.Publish(ctx, audit.Event{
		PrincipalID: m.principal.ID,
		ProfileID:   m.profile,
		MessageID:   message,
		Action:      string(action),
		RequestID:   requestcontext.RequestID(ctx),
		DeviceLabel: requestcontext.DeviceLabel(ctx),
	})
}
