package records

import (
	"context"
	"sort"
	"sync"

	"praxis/internal/visibility/models"
)

// InMemory holds the candidate record sets for dev mode and tests. Visibility
// filtering never happens here; queries return the full candidate set.
type InMemory struct {
	mu        sync.RWMutex
	messages  []models.SystemMessage
	clients   []models.Client
	plans     []models.TrainingPlan
	logs      []models.TrainingLog
	reminders []models.TrainingReminder
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// AddMessage classifies and stores a message. Classification keeps legacy
// personalized-request titles behaving as directed-only records.
func (s *InMemory) AddMessage(m models.SystemMessage) {
	models.ClassifyMessage(&m)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

func (s *InMemory) AddClient(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
}

func (s *InMemory) AddPlan(p models.TrainingPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, p)
}

func (s *InMemory) AddLog(l models.TrainingLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, l)
}

func (s *InMemory) AddReminder(r models.TrainingReminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append(s.reminders, r)
}

// ListMessages returns all messages newest-created-first.
func (s *InMemory) ListMessages(_ context.Context) ([]models.SystemMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SystemMessage, len(s.messages))
	copy(out, s.messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) ListClients(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Client, len(s.clients))
	copy(out, s.clients)
	return out, nil
}

// provider resolves a client id to its owning provider. Must be called while
// holding at least the read lock.
func (s *InMemory) provider(clientID string) (owner models.Client, ok bool) {
	for _, c := range s.clients {
		if c.ID == clientID {
			return c, true
		}
	}
	return models.Client{}, false
}

// ListPlans resolves each plan's owner through its client's provider, so the
// filter sees a flat owning identifier.
func (s *InMemory) ListPlans(_ context.Context) ([]models.TrainingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TrainingPlan, 0, len(s.plans))
	for _, p := range s.plans {
		if c, ok := s.provider(p.ClientID); ok {
			p.OwnerID = c.ProviderID
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *InMemory) ListLogs(_ context.Context) ([]models.TrainingLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TrainingLog, 0, len(s.logs))
	for _, l := range s.logs {
		if c, ok := s.provider(l.ClientID); ok {
			l.OwnerID = c.ProviderID
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *InMemory) ListReminders(_ context.Context) ([]models.TrainingReminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TrainingReminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if c, ok := s.provider(r.ClientID); ok {
			r.OwnerID = c.ProviderID
		}
		out = append(out, r)
	}
	return out, nil
}
