package readstate

import (
	"context"
	"sync"

	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
)

// InMemory implements Store for dev mode and tests. Durable only for the
// process lifetime.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]map[id.MessageID]bool
	notifier *bus.Bus
}

// NewInMemory creates an empty store. notifier may be nil.
func NewInMemory(notifier *bus.Bus) *InMemory {
	return &InMemory{
		profiles: make(map[id.ProfileID]map[id.MessageID]bool),
		notifier: notifier,
	}
}

func (s *InMemory) HasSeen(_ context.Context, profile id.ProfileID, message id.MessageID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[profile][message], nil
}

func (s *InMemory) MarkSeen(ctx context.Context, profile id.ProfileID, message id.MessageID) error {
	return s.MarkSeenAll(ctx, profile, []id.MessageID{message})
}

func (s *InMemory) MarkSeenAll(_ context.Context, profile id.ProfileID, messages []id.MessageID) error {
	s.mu.Lock()
	set := s.profiles[profile]
	if set == nil {
		set = make(map[id.MessageID]bool)
		s.profiles[profile] = set
	}
	changed := false
	for _, m := range messages {
		if m.IsEmpty() || set[m] {
			continue
		}
		set[m] = true
		changed = true
	}
	s.mu.Unlock()

	if changed && s.notifier != nil {
		s.notifier.Emit(EventAcknowledgmentChanged)
	}
	return nil
}

func (s *InMemory) SeenSet(_ context.Context, profile id.ProfileID) (map[id.MessageID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.MessageID]bool, len(s.profiles[profile]))
	for m := range s.profiles[profile] {
		out[m] = true
	}
	return out, nil
}
