package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	id "praxis/pkg/domain"
	"praxis/pkg/requestcontext"
)

// ProfileCookie is the cookie carrying the per-browser-profile identifier.
// Read-state is keyed by this value, so two browser profiles on the same
// machine track acknowledgments independently.
const ProfileCookie = "praxis_profile"

// ProfileContext ensures every request carries a browser-profile identifier
// and a human-readable device label. A missing or empty cookie gets a fresh
// identifier, set on the response so the browser keeps it.
func ProfileContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		profile := ""
		if c, err := r.Cookie(ProfileCookie); err == nil {
			profile = c.Value
		}
		if profile == "" {
			profile = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ProfileCookie,
				Value:    profile,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx = requestcontext.WithProfileID(ctx, id.ProfileID(profile))
		ctx = requestcontext.WithDeviceLabel(ctx, deviceLabel(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// deviceLabel renders "Browser version on OS" for audit trails. Informational
// only; never an authorization input.
func deviceLabel(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	label := name
	if version != "" {
		label += " " + version
	}
	if os := ua.OS(); os != "" {
		label += " on " + os
	}
	if label == "" {
		return "unknown"
	}
	return label
}
