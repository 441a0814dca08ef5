//go:build integration

package readstate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"praxis/internal/notification/readstate"
	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
	"praxis/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	store    *readstate.Redis
	notifier *bus.Bus
	events   *int
	ctx      context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.Client.FlushAll(s.ctx).Err())

	s.notifier = bus.New()
	count := 0
	s.events = &count
	s.notifier.On(readstate.EventAcknowledgmentChanged, func() { count++ })
	s.store = readstate.NewRedis(s.redis.Client, s.notifier)
}

func (s *RedisStoreSuite) TestMarkSeenIsIdempotent() {
	profile := id.ProfileID("prof-1")
	msg := id.MessageID("msg-1")

	s.Require().NoError(s.store.MarkSeen(s.ctx, profile, msg))
	s.Require().NoError(s.store.MarkSeen(s.ctx, profile, msg))

	seen, err := s.store.HasSeen(s.ctx, profile, msg)
	s.Require().NoError(err)
	s.True(seen)
	s.Equal(1, *s.events)
}

func (s *RedisStoreSuite) TestBatchAcknowledgment() {
	profile := id.ProfileID("prof-1")
	s.Require().NoError(s.store.MarkSeenAll(s.ctx, profile, []id.MessageID{"m1", "m2", "m3"}))

	set, err := s.store.SeenSet(s.ctx, profile)
	s.Require().NoError(err)
	s.Len(set, 3)
	s.Equal(1, *s.events)
}

func (s *RedisStoreSuite) TestCorruptValueTreatedAsEmptySet() {
	profile := id.ProfileID("prof-1")
	// Simulate another writer corrupting the key with a plain string.
	s.Require().NoError(s.redis.Client.Set(s.ctx, "ack:profile:prof-1", "garbage", 0).Err())

	seen, err := s.store.HasSeen(s.ctx, profile, "m1")
	s.Require().NoError(err)
	s.False(seen)

	set, err := s.store.SeenSet(s.ctx, profile)
	s.Require().NoError(err)
	s.Empty(set)

	// MarkSeen resets the corrupt key and proceeds.
	s.Require().NoError(s.store.MarkSeen(s.ctx, profile, "m1"))
	seen, err = s.store.HasSeen(s.ctx, profile, "m1")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *RedisStoreSuite) TestProfilesAreIsolated() {
	s.Require().NoError(s.store.MarkSeen(s.ctx, "prof-1", "m1"))

	seen, err := s.store.HasSeen(s.ctx, "prof-2", "m1")
	s.Require().NoError(err)
	s.False(seen)
}
