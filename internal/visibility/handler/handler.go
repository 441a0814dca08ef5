package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"praxis/internal/platform/middleware"
	"praxis/internal/visibility/models"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/httputil"
	"praxis/pkg/requestcontext"
)

// Service defines the interface for visibility-filtered listing operations.
type Service interface {
	ListMessages(ctx context.Context, p models.Principal) ([]models.SystemMessage, error)
	ListClients(ctx context.Context, p models.Principal) ([]models.Client, error)
	ListPlans(ctx context.Context, p models.Principal) ([]models.TrainingPlan, error)
	ListLogs(ctx context.Context, p models.Principal) ([]models.TrainingLog, error)
	ListReminders(ctx context.Context, p models.Principal) ([]models.TrainingReminder, error)
}

// Handler wires the dashboard feed endpoints to the visibility service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a visibility handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the feed endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/messages", h.HandleListMessages)
	r.Get("/clients", h.HandleListClients)
	r.Get("/plans", h.HandleListPlans)
	r.Get("/logs", h.HandleListLogs)
	r.Get("/reminders", h.HandleListReminders)
}

// list runs one feed listing with the shared principal/logging boilerplate.
func list[T any](h *Handler, w http.ResponseWriter, r *http.Request, feed string,
	fetch func(context.Context, models.Principal) ([]T, error), render func([]T) any,
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required"))
		return
	}

	items, err := fetch(ctx, p)
	if err != nil {
		h.logger.ErrorContext(ctx, "feed listing failed",
			"request_id", requestID,
			"feed", feed,
			"principal", p.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "feed listed",
		"request_id", requestID,
		"feed", feed,
		"principal", p.ID,
		"role", p.Role,
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, render(items))
}

// HandleListMessages handles GET /messages requests.
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "messages", h.service.ListMessages,
		func(msgs []models.SystemMessage) any { return FromMessages(msgs) })
}

// HandleListClients handles GET /clients requests.
func (h *Handler) HandleListClients(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "clients", h.service.ListClients,
		func(clients []models.Client) any { return FromClients(clients) })
}

// HandleListPlans handles GET /plans requests.
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "plans", h.service.ListPlans,
		func(plans []models.TrainingPlan) any { return FromPlans(plans) })
}

// HandleListLogs handles GET /logs requests.
func (h *Handler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "logs", h.service.ListLogs,
		func(logs []models.TrainingLog) any { return FromLogs(logs) })
}

// HandleListReminders handles GET /reminders requests.
func (h *Handler) HandleListReminders(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "reminders", h.service.ListReminders,
		func(reminders []models.TrainingReminder) any { return FromReminders(reminders) })
}
