package readstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store    *InMemory
	notifier *bus.Bus
	events   *int
	ctx      context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.notifier = bus.New()
	count := 0
	s.events = &count
	s.notifier.On(EventAcknowledgmentChanged, func() { count++ })
	s.store = NewInMemory(s.notifier)
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestMarkSeenIsIdempotent() {
	profile := id.ProfileID("prof-1")
	msg := id.MessageID("msg-1")

	seen, err := s.store.HasSeen(s.ctx, profile, msg)
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(s.store.MarkSeen(s.ctx, profile, msg))
	s.Require().NoError(s.store.MarkSeen(s.ctx, profile, msg))

	seen, err = s.store.HasSeen(s.ctx, profile, msg)
	s.Require().NoError(err)
	s.True(seen)

	// Change event fired exactly once for the call that changed membership.
	s.Equal(1, *s.events)
}

func (s *InMemoryStoreSuite) TestMarkSeenAllBatches() {
	profile := id.ProfileID("prof-1")
	batch := []id.MessageID{"m1", "m2", "m3"}

	s.Require().NoError(s.store.MarkSeenAll(s.ctx, profile, batch))

	set, err := s.store.SeenSet(s.ctx, profile)
	s.Require().NoError(err)
	s.Len(set, 3)
	s.Equal(1, *s.events, "one batch, one change event")

	// Re-acknowledging the same batch changes nothing.
	s.Require().NoError(s.store.MarkSeenAll(s.ctx, profile, batch))
	s.Equal(1, *s.events)
}

func (s *InMemoryStoreSuite) TestProfilesAreIsolated() {
	s.Require().NoError(s.store.MarkSeen(s.ctx, "prof-1", "m1"))

	seen, err := s.store.HasSeen(s.ctx, "prof-2", "m1")
	s.Require().NoError(err)
	s.False(seen)
}

func (s *InMemoryStoreSuite) TestEmptyMessageIDsIgnored() {
	s.Require().NoError(s.store.MarkSeenAll(s.ctx, "prof-1", []id.MessageID{""}))
	s.Zero(*s.events)

	set, err := s.store.SeenSet(s.ctx, "prof-1")
	s.Require().NoError(err)
	s.Empty(set)
}
