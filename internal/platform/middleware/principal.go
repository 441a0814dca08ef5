package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"praxis/internal/visibility/models"
	"praxis/pkg/platform/httputil"
	"praxis/pkg/requestcontext"
)

// PrincipalResolver turns an authenticated identity into the role/company
// principal every downstream decision is made against.
type PrincipalResolver interface {
	Resolve(ctx context.Context, identity string) (models.Principal, error)
}

type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for tests that build contexts by hand.
var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the resolved principal from the context. The second
// return is false when resolution middleware did not run.
func GetPrincipal(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(models.Principal)
	return p, ok
}

// WithPrincipal injects a resolved principal into a context for tests.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// ResolvePrincipal resolves the request identity once per request and stores
// the result for handlers. Resolution failures (including fail-closed
// rejections) terminate the request with the mapped status.
func ResolvePrincipal(resolver PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			p, err := resolver.Resolve(ctx, requestcontext.Identity(ctx))
			if err != nil {
				logger.WarnContext(ctx, "principal resolution failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}
