// Package principal resolves an authenticated identity into the Principal
// every visibility decision is made against.
package principal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"praxis/internal/visibility/metrics"
	"praxis/internal/visibility/models"
	id "praxis/pkg/domain"
	dErrors "praxis/pkg/domain-errors"
	"praxis/pkg/platform/audit"
	"praxis/pkg/platform/sentinel"
)

// ProfileStore looks a roster profile up by the opaque authenticated
// identity. Returns sentinel.ErrNotFound when the identity has no profile.
type ProfileStore interface {
	GetByIdentity(ctx context.Context, identity string) (models.Principal, error)
}

// AuditPublisher records security-relevant resolution outcomes.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// Resolver applies the configured FallbackPolicy when an identity has no
// roster profile. The policy is an explicit, auditable choice: fail-open
// resolves to sys_admin so a missing profile never hides data (onboarding
// behavior); fail-closed rejects the request.
type Resolver struct {
	profiles ProfileStore
	policy   models.FallbackPolicy
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(r *Resolver) { r.auditor = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func New(profiles ProfileStore, policy models.FallbackPolicy, opts ...Option) (*Resolver, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unsupported fallback policy %q", policy)
	}

	r := &Resolver{profiles: profiles, policy: policy, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve produces the Principal for an authenticated identity.
//
// Errors: CodeUnauthenticated when the identity is absent; CodeForbidden when
// the profile is missing under fail-closed; CodeInternal for store failures.
// A missing profile under fail-open is not an error: the caller gets the
// sys_admin fallback principal and the event is logged and audited.
func (r *Resolver) Resolve(ctx context.Context, identity string) (models.Principal, error) {
	if identity == "" {
		return models.Principal{}, dErrors.Wrap(sentinel.ErrUnauthenticated, dErrors.CodeUnauthenticated, "no authenticated identity")
	}

	p, err := r.profiles.GetByIdentity(ctx, identity)
	if err == nil {
		if verr := p.Validate(); verr != nil {
			return models.Principal{}, dErrors.Wrap(verr, dErrors.CodeInternal, "roster profile violates principal invariants")
		}
		return p, nil
	}

	if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Principal{}, dErrors.Wrap(err, dErrors.CodeInternal, "profile lookup failed")
	}

	if r.policy == models.FallbackFailClosed {
		r.logger.Warn("rejecting identity without roster profile", "identity", identity)
		r.publishAudit(ctx, audit.EventFailClosedResolution, identity)
		return models.Principal{}, dErrors.Wrap(err, dErrors.CodeForbidden, "no roster profile for identity")
	}

	r.logger.Warn("fail-open resolution for identity without roster profile",
		"identity", identity,
		"policy", r.policy,
	)
	if r.metrics != nil {
		r.metrics.IncrementFailOpen()
	}
	r.publishAudit(ctx, audit.EventFailOpenResolution, identity)

	return models.Principal{
		ID:   id.PrincipalID(identity),
		Role: models.RoleSysAdmin,
	}, nil
}

func (r *Resolver) publishAudit(ctx context.Context, action audit.AuditEvent, identity string) {
	if r.auditor == nil {
		return
	}
	r.auditor.Publish(ctx, audit.Event{
		PrincipalID: id.PrincipalID(identity),
		Action:      string(action),
		Reason:      "identity has no roster profile",
	})
}
