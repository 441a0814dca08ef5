package audit

import (
	"time"

	id "praxis/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: fail-open principal resolutions, degraded authorization data.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: message acknowledgments, carousel dismissals.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	PrincipalID id.PrincipalID
	ProfileID   id.ProfileID
	MessageID   id.MessageID
	Action      string
	Reason      string
	RequestID   string
	// DeviceLabel is a human-readable browser/OS description derived from the
	// User-Agent, attached so operators can correlate per-profile read-state.
	DeviceLabel string
}

type AuditEvent string

const (
	// Notification events
	EventMessageAcknowledged  AuditEvent = "message_acknowledged"
	EventMessagesDismissedAll AuditEvent = "messages_dismissed_all"

	// Authorization degradation events
	EventFailOpenResolution     AuditEvent = "fail_open_resolution"
	EventFailClosedResolution   AuditEvent = "fail_closed_resolution"
	EventMembershipIndexDegrade AuditEvent = "membership_index_degraded"
)

// eventCategories is the source of truth for routing events to categories.
var eventCategories = map[AuditEvent]EventCategory{
	EventMessageAcknowledged:    CategoryOperations,
	EventMessagesDismissedAll:   CategoryOperations,
	EventFailOpenResolution:     CategorySecurity,
	EventFailClosedResolution:   CategorySecurity,
	EventMembershipIndexDegrade: CategorySecurity,
}

// Category resolves the category for an event name, defaulting to operations.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}
