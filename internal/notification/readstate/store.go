// Package readstate tracks which system messages a browser profile has
// already acknowledged. The set grows monotonically; ids are never removed
// except by clearing the underlying storage.
package readstate

import (
	"context"

	id "praxis/pkg/domain"
)

// EventAcknowledgmentChanged is emitted on the change-notifier bus whenever a
// MarkSeen call actually changes set membership. Subscribers re-derive their
// own state (unread badges, cached counts); the event carries no payload.
const EventAcknowledgmentChanged = "acknowledgment-state-changed"

// Store is the durable per-profile acknowledged set.
//
// MarkSeen is idempotent: re-acknowledging an already-present id is a no-op
// and must not re-emit the change event. A corrupt stored value is treated as
// an empty set, never an error.
type Store interface {
	HasSeen(ctx context.Context, profile id.ProfileID, message id.MessageID) (bool, error)
	MarkSeen(ctx context.Context, profile id.ProfileID, message id.MessageID) error
	// MarkSeenAll acknowledges a batch in one operation, emitting the change
	// event at most once when any membership changed.
	MarkSeenAll(ctx context.Context, profile id.ProfileID, messages []id.MessageID) error
	// SeenSet returns a snapshot of the acknowledged set.
	SeenSet(ctx context.Context, profile id.ProfileID) (map[id.MessageID]bool, error)
}
