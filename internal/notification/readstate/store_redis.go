package readstate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
)

const (
	// Redis key prefix for per-profile acknowledged sets
	ackSetKeyPrefix = "ack:profile:"
)

// Redis is the production implementation of Store: one redis set per browser
// profile. SADD gives idempotent membership for free and reports whether the
// call actually changed anything, which drives change-event emission.
type Redis struct {
	client   *redis.Client
	notifier *bus.Bus
	logger   *slog.Logger
}

type RedisOption func(*Redis)

func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) { r.logger = logger }
}

// NewRedis constructs a redis-backed read-state store. notifier may be nil.
func NewRedis(client *redis.Client, notifier *bus.Bus, opts ...RedisOption) *Redis {
	r := &Redis{client: client, notifier: notifier, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func ackKey(profile id.ProfileID) string {
	return ackSetKeyPrefix + profile.String()
}

func (r *Redis) HasSeen(ctx context.Context, profile id.ProfileID, message id.MessageID) (bool, error) {
	seen, err := r.client.SIsMember(ctx, ackKey(profile), message.String()).Result()
	if err != nil {
		if isWrongType(err) {
			// Corrupt value under the key: behave as an empty set.
			r.logger.Warn("corrupt read-state value, treating as empty", "profile", profile)
			return false, nil
		}
		return false, err
	}
	return seen, nil
}

func (r *Redis) MarkSeen(ctx context.Context, profile id.ProfileID, message id.MessageID) error {
	return r.MarkSeenAll(ctx, profile, []id.MessageID{message})
}

func (r *Redis) MarkSeenAll(ctx context.Context, profile id.ProfileID, messages []id.MessageID) error {
	members := make([]any, 0, len(messages))
	for _, m := range messages {
		if !m.IsEmpty() {
			members = append(members, m.String())
		}
	}
	if len(members) == 0 {
		return nil
	}

	key := ackKey(profile)
	added, err := r.client.SAdd(ctx, key, members...).Result()
	if isWrongType(err) {
		// Discard the corrupt value and start a fresh set; losing read-state
		// only means a message may be shown again.
		r.logger.Warn("corrupt read-state value, resetting", "profile", profile)
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return err
		}
		added, err = r.client.SAdd(ctx, key, members...).Result()
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if added > 0 && r.notifier != nil {
		r.notifier.Emit(EventAcknowledgmentChanged)
	}
	return nil
}

func (r *Redis) SeenSet(ctx context.Context, profile id.ProfileID) (map[id.MessageID]bool, error) {
	members, err := r.client.SMembers(ctx, ackKey(profile)).Result()
	if err != nil {
		if isWrongType(err) {
			r.logger.Warn("corrupt read-state value, treating as empty", "profile", profile)
			return map[id.MessageID]bool{}, nil
		}
		return nil, err
	}
	out := make(map[id.MessageID]bool, len(members))
	for _, m := range members {
		out[id.MessageID(m)] = true
	}
	return out, nil
}

// isWrongType detects redis WRONGTYPE errors: some other writer stored a
// non-set value under our key.
func isWrongType(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "WRONGTYPE")
}
