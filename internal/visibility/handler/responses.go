package handler

import (
	"time"

	"praxis/internal/visibility/models"
)

// MessageResponse is the wire shape of a system message. The directed-only
// flag is internal routing state and is never exposed.
type MessageResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	DirectedTo string     `json:"directed_to,omitempty"`
	Priority   string     `json:"priority"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func FromMessage(m models.SystemMessage) MessageResponse {
	return MessageResponse{
		ID:         m.ID.String(),
		Title:      m.Title,
		Body:       m.Body,
		DirectedTo: m.DirectedTo.String(),
		Priority:   string(m.Priority),
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		CreatedAt:  m.CreatedAt,
	}
}

func FromMessages(msgs []models.SystemMessage) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromMessage(m))
	}
	return out
}

type ClientResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	ProviderID string    `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromClients(clients []models.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientResponse{
			ID:         c.ID,
			FullName:   c.FullName,
			ProviderID: c.ProviderID.String(),
			CreatedAt:  c.CreatedAt,
		})
	}
	return out
}

type PlanResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func FromPlans(plans []models.TrainingPlan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{
			ID:        p.ID,
			ClientID:  p.ClientID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

type LogResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	PlanID    string    `json:"plan_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromLogs(logs []models.TrainingLog) []LogResponse {
	out := make([]LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, LogResponse{
			ID:        l.ID,
			ClientID:  l.ClientID,
			PlanID:    l.PlanID,
			Notes:     l.Notes,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}

type ReminderResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Note      string    `json:"note,omitempty"`
	DueAt     time.Time `json:"due_at"`
	CreatedAt time.Time `json:"created_at"`
}

func FromReminders(reminders []models.TrainingReminder) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, ReminderResponse{
			ID:        r.ID,
			ClientID:  r.ClientID,
			Note:      r.Note,
			DueAt:     r.DueAt,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
