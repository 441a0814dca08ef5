package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
	"praxis/pkg/platform/sentinel"
)

// Postgres is the production roster store. The principals table is written by
// the external admin surface; this engine only reads it.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) GetByIdentity(ctx context.Context, identity string) (models.Principal, error) {
	const query = `
		SELECT id, role, company_id
		FROM principals
		WHERE identity = $1`

	var (
		pid     string
		role    string
		company *string
	)
	err := s.pool.QueryRow(ctx, query, identity).Scan(&pid, &role, &company)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Principal{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("query principal by identity: %w", err)
	}
	return scanPrincipal(pid, role, company)
}

func (s *Postgres) ListAll(ctx context.Context) ([]models.Principal, error) {
	const query = `
		SELECT id, role, company_id
		FROM principals
		ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var out []models.Principal
	for rows.Next() {
		var (
			pid     string
			role    string
			company *string
		)
		if err := rows.Scan(&pid, &role, &company); err != nil {
			return nil, fmt.Errorf("scan principal: %w", err)
		}
		p, err := scanPrincipal(pid, role, company)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return out, nil
}

func scanPrincipal(pid, role string, company *string) (models.Principal, error) {
	parsedRole, err := models.ParseRole(role)
	if err != nil {
		return models.Principal{}, fmt.Errorf("principal %s: %w", pid, err)
	}
	p := models.Principal{ID: id.PrincipalID(pid), Role: parsedRole}
	if company != nil {
		p.CompanyID = id.CompanyID(*company)
	}
	return p, nil
}
