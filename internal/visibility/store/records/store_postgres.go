package records

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
)

// Postgres reads the candidate record sets. Owner identifiers for
// plan/log/reminder rows are resolved transitively through the client's
// provider in the query itself, so the filter never needs a second lookup.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) ListMessages(ctx context.Context) ([]models.SystemMessage, error) {
	const query = `
		SELECT id, title, body, directed_to, priority,
		       requires_directed_visibility, starts_at, ends_at, created_at
		FROM system_messages
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []models.SystemMessage
	for rows.Next() {
		var (
			m          models.SystemMessage
			mid        string
			directedTo *string
			priority   string
		)
		if err := rows.Scan(&mid, &m.Title, &m.Body, &directedTo, &priority,
			&m.RequiresDirectedVisibility, &m.StartsAt, &m.EndsAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = id.MessageID(mid)
		m.Priority = models.Priority(priority)
		if directedTo != nil {
			m.DirectedTo = id.PrincipalID(*directedTo)
		}
		// Rows created before the flag existed carry only the legacy title.
		models.ClassifyMessage(&m)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListClients(ctx context.Context) ([]models.Client, error) {
	const query = `
		SELECT id, full_name, provider_id, created_at
		FROM clients
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var (
			c        models.Client
			provider *string
		)
		if err := rows.Scan(&c.ID, &c.FullName, &provider, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		if provider != nil {
			c.ProviderID = id.PrincipalID(*provider)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListPlans(ctx context.Context) ([]models.TrainingPlan, error) {
	const query = `
		SELECT p.id, p.client_id, p.name, c.provider_id, p.created_at
		FROM training_plans p
		LEFT JOIN clients c ON c.id = p.client_id
		ORDER BY p.created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var out []models.TrainingPlan
	for rows.Next() {
		var (
			p        models.TrainingPlan
			provider *string
		)
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &provider, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if provider != nil {
			p.OwnerID = id.PrincipalID(*provider)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListLogs(ctx context.Context) ([]models.TrainingLog, error) {
	const query = `
		SELECT l.id, l.client_id, l.plan_id, l.notes, c.provider_id, l.created_at
		FROM training_logs l
		LEFT JOIN clients c ON c.id = l.client_id
		ORDER BY l.created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []models.TrainingLog
	for rows.Next() {
		var (
			l        models.TrainingLog
			provider *string
		)
		if err := rows.Scan(&l.ID, &l.ClientID, &l.PlanID, &l.Notes, &provider, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if provider != nil {
			l.OwnerID = id.PrincipalID(*provider)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListReminders(ctx context.Context) ([]models.TrainingReminder, error) {
	const query = `
		SELECT r.id, r.client_id, r.note, r.due_at, c.provider_id, r.created_at
		FROM training_reminders r
		LEFT JOIN clients c ON c.id = r.client_id
		ORDER BY r.created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []models.TrainingReminder
	for rows.Next() {
		var (
			r        models.TrainingReminder
			provider *string
			dueAt    time.Time
		)
		if err := rows.Scan(&r.ID, &r.ClientID, &r.Note, &dueAt, &provider, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.DueAt = dueAt
		if provider != nil {
			r.OwnerID = id.PrincipalID(*provider)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return out, nil
}
