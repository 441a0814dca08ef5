package store

import (
	"time"

	"github.com/google/uuid"

	"praxis/internal/visibility/models"
	"praxis/internal/visibility/store/records"
	"praxis/internal/visibility/store/roster"
	id "praxis/pkg/domain"
)

// SeedDemo populates the in-memory stores with a small two-company roster
// and a handful of records, enough to exercise every visibility branch in
// dev mode.
func SeedDemo(rs *roster.InMemory, recs *records.InMemory) {
	now := time.Now()

	principals := []struct {
		identity string
		p        models.Principal
	}{
		{"ident-root", models.Principal{ID: "root", Role: models.RoleSysAdmin}},
		{"ident-m1", models.Principal{ID: "m1", Role: models.RoleCompanyManager, CompanyID: "C1"}},
		{"ident-e1", models.Principal{ID: "e1", Role: models.RoleEmployee, CompanyID: "C1"}},
		{"ident-m2", models.Principal{ID: "m2", Role: models.RoleCompanyManager, CompanyID: "C2"}},
		{"ident-e2", models.Principal{ID: "e2", Role: models.RoleEmployee, CompanyID: "C2"}},
	}
	for _, entry := range principals {
		rs.Put(entry.identity, entry.p)
	}

	clients := []models.Client{
		{ID: uuid.NewString(), FullName: "Dana Levi", ProviderID: "e1", CreatedAt: now},
		{ID: uuid.NewString(), FullName: "Omri Katz", ProviderID: "e2", CreatedAt: now},
	}
	for _, c := range clients {
		recs.AddClient(c)
	}

	recs.AddPlan(models.TrainingPlan{
		ID: uuid.NewString(), ClientID: clients[0].ID, Name: "Strength block A", CreatedAt: now,
	})
	recs.AddLog(models.TrainingLog{
		ID: uuid.NewString(), ClientID: clients[0].ID, Notes: "first session done", CreatedAt: now,
	})
	recs.AddReminder(models.TrainingReminder{
		ID: uuid.NewString(), ClientID: clients[1].ID, Note: "weekly check-in", DueAt: now.Add(48 * time.Hour), CreatedAt: now,
	})

	recs.AddMessage(models.SystemMessage{
		ID: id.MessageID(uuid.NewString()), Title: "Scheduled maintenance tonight",
		Priority: models.PriorityUrgent, CreatedAt: now,
	})
	recs.AddMessage(models.SystemMessage{
		ID: id.MessageID(uuid.NewString()), Title: "New personalized menu request",
		DirectedTo: "e1", Priority: models.PriorityUrgent, CreatedAt: now.Add(time.Minute),
	})
	recs.AddMessage(models.SystemMessage{
		ID: id.MessageID(uuid.NewString()), Title: "Release notes",
		Priority: models.PriorityNormal, CreatedAt: now.Add(2 * time.Minute),
	})
}
