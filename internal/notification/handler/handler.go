package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"praxis/internal/notification/sequencer"
	"praxis/internal/platform/middleware"
	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/httputil"
	"praxis/pkg/requestcontext"
)

// Service defines the interface for carousel and badge operations.
type Service interface {
	Open(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error)
	Next(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error)
	Previous(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error)
	DismissAll(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error)
	UnreadCount(ctx context.Context, principal models.Principal, profile id.ProfileID) (int, error)
}

// Handler wires the carousel endpoints to the notification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a notification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the carousel and badge endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/carousel/open", h.transition("open", h.service.Open))
	r.Post("/carousel/next", h.transition("next", h.service.Next))
	r.Post("/carousel/previous", h.transition("previous", h.service.Previous))
	r.Post("/carousel/dismiss-all", h.transition("dismiss-all", h.service.DismissAll))
	r.Get("/notifications/unread-count", h.HandleUnreadCount)
}

type transitionFunc func(ctx context.Context, principal models.Principal, profile id.ProfileID) (sequencer.State, error)

// transition adapts one machine operation into an HTTP handler. Every
// operation shares the same identity plumbing and state rendering.
func (h *Handler) transition(action string, fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		principal, ok := middleware.GetPrincipal(ctx)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required"))
			return
		}
		profile := requestcontext.ProfileID(ctx)

		st, err := fn(ctx, principal, profile)
		if err != nil {
			h.logger.WarnContext(ctx, "carousel transition rejected",
				"request_id", requestcontext.RequestID(ctx),
				"action", action,
				"principal", principal.ID,
				"profile", profile,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}

		h.logger.InfoContext(ctx, "carousel transition",
			"request_id", requestcontext.RequestID(ctx),
			"action", action,
			"principal", principal.ID,
			"profile", profile,
			"phase", st.Phase,
			"queued", len(st.Queue),
		)

		httputil.WriteJSON(w, http.StatusOK, FromState(st))
	}
}

// HandleUnreadCount handles GET /notifications/unread-count requests.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "authentication required"))
		return
	}

	count, err := h.service.UnreadCount(ctx, principal, requestcontext.ProfileID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "unread count failed",
			"request_id", requestcontext.RequestID(ctx),
			"principal", principal.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, UnreadCountResponse{Unread: count})
}
