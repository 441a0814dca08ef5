package roster

import (
	"context"
	"sync"

	"praxis/internal/visibility/models"
	"praxis/pkg/platform/sentinel"
)

// InMemory implements the roster lookups for dev mode and tests.
type InMemory struct {
	mu         sync.RWMutex
	byIdentity map[string]models.Principal
	order      []string
}

func NewInMemory() *InMemory {
	return &InMemory{byIdentity: make(map[string]models.Principal)}
}

// Put registers a profile under its authenticated identity.
func (s *InMemory) Put(identity string, p models.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byIdentity[identity]; !exists {
		s.order = append(s.order, identity)
	}
	s.byIdentity[identity] = p
}

func (s *InMemory) GetByIdentity(_ context.Context, identity string) (models.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byIdentity[identity]
	if !ok {
		return models.Principal{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]models.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Principal, 0, len(s.order))
	for _, identity := range s.order {
		out = append(out, s.byIdentity[identity])
	}
	return out, nil
}
