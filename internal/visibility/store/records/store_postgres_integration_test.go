//go:build integration

package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"praxis/internal/visibility/store"
	"praxis/internal/visibility/store/records"
	"praxis/pkg/testutil/containers"
)

type PostgresRecordsSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *records.Postgres
}

func TestPostgresRecordsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRecordsSuite))
}

func (s *PostgresRecordsSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), store.Schema)
	s.store = records.NewPostgres(s.postgres.Pool)
}

func (s *PostgresRecordsSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"training_reminders", "training_logs", "training_plans", "clients", "system_messages")
	s.Require().NoError(err)
}

func (s *PostgresRecordsSuite) exec(query string, args ...any) {
	_, err := s.postgres.Pool.Exec(context.Background(), query, args...)
	s.Require().NoError(err)
}

func (s *PostgresRecordsSuite) TestListMessagesNewestFirst() {
	base := time.Now().UTC().Truncate(time.Second)
	s.exec(`INSERT INTO system_messages (id, title, priority, created_at) VALUES ($1, $2, $3, $4)`,
		"m-old", "Old", "urgent", base.Add(-2*time.Hour))
	s.exec(`INSERT INTO system_messages (id, title, priority, created_at) VALUES ($1, $2, $3, $4)`,
		"m-new", "New", "normal", base)

	msgs, err := s.store.ListMessages(context.Background())
	s.Require().NoError(err)
	s.Require().Len(msgs, 2)
	s.Equal("m-new", msgs[0].ID.String())
	s.Equal("m-old", msgs[1].ID.String())
}

func (s *PostgresRecordsSuite) TestLegacyTitleRowsAreDirectedOnly() {
	s.exec(`INSERT INTO system_messages (id, title, directed_to) VALUES ($1, $2, $3)`,
		"m-legacy", "New personalized menu request", "e1")

	msgs, err := s.store.ListMessages(context.Background())
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.True(msgs[0].DirectedOnly(), "legacy rows without the flag still classify as directed-only")
	s.Equal("e1", msgs[0].DirectedTo.String())
}

func (s *PostgresRecordsSuite) TestPlansResolveOwnerThroughClient() {
	s.exec(`INSERT INTO clients (id, full_name, provider_id) VALUES ($1, $2, $3)`,
		"c1", "Dana Levi", "e1")
	s.exec(`INSERT INTO training_plans (id, client_id, name) VALUES ($1, $2, $3)`,
		"p1", "c1", "Block A")

	plans, err := s.store.ListPlans(context.Background())
	s.Require().NoError(err)
	s.Require().Len(plans, 1)
	s.Equal("e1", plans[0].OwnerID.String())
}

func (s *PostgresRecordsSuite) TestLogsAndRemindersResolveOwner() {
	s.exec(`INSERT INTO clients (id, full_name, provider_id) VALUES ($1, $2, $3)`,
		"c1", "Dana Levi", "e1")
	s.exec(`INSERT INTO training_logs (id, client_id, notes) VALUES ($1, $2, $3)`,
		"l1", "c1", "first session")
	s.exec(`INSERT INTO training_reminders (id, client_id, note, due_at) VALUES ($1, $2, $3, $4)`,
		"r1", "c1", "check-in", time.Now().Add(24*time.Hour))

	logs, err := s.store.ListLogs(context.Background())
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("e1", logs[0].OwnerID.String())

	reminders, err := s.store.ListReminders(context.Background())
	s.Require().NoError(err)
	s.Require().Len(reminders, 1)
	s.Equal("e1", reminders[0].OwnerID.String())
}

func (s *PostgresRecordsSuite) TestClientWithoutProviderHasEmptyOwner() {
	s.exec(`INSERT INTO clients (id, full_name) VALUES ($1, $2)`, "c1", "Walk In")

	clients, err := s.store.ListClients(context.Background())
	s.Require().NoError(err)
	s.Require().Len(clients, 1)
	s.True(clients[0].ProviderID.IsEmpty())
}
