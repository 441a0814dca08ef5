package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "praxis/pkg/platform/audit"
)

// Store implements audit.Store using an outbox table. Events are written as
// JSON rows; the kafka sink (when configured) republishes them downstream.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// outboxPayload is the JSON structure stored and published downstream.
// Field names match audit.Event for proper deserialization by consumers.
type outboxPayload struct {
	ID          string `json:"ID"`
	Category    string `json:"Category"`
	Timestamp   string `json:"Timestamp"`
	PrincipalID string `json:"PrincipalID,omitempty"`
	ProfileID   string `json:"ProfileID,omitempty"`
	MessageID   string `json:"MessageID,omitempty"`
	Action      string `json:"Action"`
	Reason      string `json:"Reason,omitempty"`
	RequestID   string `json:"RequestID,omitempty"`
	DeviceLabel string `json:"DeviceLabel,omitempty"`
}

// Append writes an audit event row.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	// Always derive category from action - eventCategories map is the source of truth
	category := audit.AuditEvent(event.Action).Category()

	payload := outboxPayload{
		ID:          eventID.String(),
		Category:    string(category),
		Timestamp:   event.Timestamp.Format(time.RFC3339Nano),
		PrincipalID: event.PrincipalID.String(),
		ProfileID:   event.ProfileID.String(),
		MessageID:   event.MessageID.String(),
		Action:      event.Action,
		Reason:      event.Reason,
		RequestID:   event.RequestID,
		DeviceLabel: event.DeviceLabel,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	const query = `
		INSERT INTO audit_outbox (id, category, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, query,
		eventID, string(category), event.Action, payloadBytes, event.Timestamp,
	); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
