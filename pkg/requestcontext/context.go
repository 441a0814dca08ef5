// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them; keeping the
// package free of net/http lets services avoid pulling in transport code.
package requestcontext

import (
	"context"
	"time"

	id "praxis/pkg/domain"
)

type (
	identityKey     struct{}
	profileIDKey    struct{}
	deviceLabelKey  struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyIdentity    = identityKey{}
	ContextKeyProfileID   = profileIDKey{}
	ContextKeyDeviceLabel = deviceLabelKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Identity retrieves the authenticated identity (JWT subject) from the
// context. Empty when the request was not authenticated.
func Identity(ctx context.Context) string {
	if identity, ok := ctx.Value(ContextKeyIdentity).(string); ok {
		return identity
	}
	return ""
}

// WithIdentity injects an authenticated identity into the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// ProfileID retrieves the browser-profile identifier read-state is keyed by.
func ProfileID(ctx context.Context) id.ProfileID {
	if profile, ok := ctx.Value(ContextKeyProfileID).(id.ProfileID); ok {
		return profile
	}
	return ""
}

// WithProfileID injects a browser-profile identifier into a context.
// Useful for service unit tests that don't run the full middleware chain.
func WithProfileID(ctx context.Context, profile id.ProfileID) context.Context {
	return context.WithValue(ctx, ContextKeyProfileID, profile)
}

// DeviceLabel retrieves the human-readable browser/OS label derived from the
// User-Agent. Informational only; never used for authorization.
func DeviceLabel(ctx context.Context) string {
	if label, ok := ctx.Value(ContextKeyDeviceLabel).(string); ok {
		return label
	}
	return ""
}

// WithDeviceLabel injects a device label into a context.
func WithDeviceLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, ContextKeyDeviceLabel, label)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context, falling back to
// time.Now for non-HTTP contexts such as workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
