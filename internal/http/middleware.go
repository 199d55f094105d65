package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/sessions"

	"github.com/example/agenda-escolar/internal/application"
)

// SessionCookieName is the name of the cookie session carrying the signed-in
// identity.
const SessionCookieName = "agenda_session"

// RequireSession rejects requests without a signed-in identity in the cookie
// session and injects the identity into the request context otherwise.
func RequireSession(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromSession(store, r)
			if !ok {
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_REQUIRED",
					Message:   errMissingIdentity.Error(),
				})
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFromSession rebuilds the identity from the cookie session values.
// A decoding error is treated the same as a missing session.
func identityFromSession(store sessions.Store, r *http.Request) (application.Identity, bool) {
	session, err := store.Get(r, SessionCookieName)
	if err != nil || session.IsNew {
		return application.Identity{}, false
	}

	login, _ := session.Values["login"].(string)
	nome, _ := session.Values["nome"].(string)
	role, _ := session.Values["role"].(string)

	identity := application.Identity{Login: login, Nome: nome, Role: application.Role(role)}
	if identity.IsZero() {
		return application.Identity{}, false
	}
	return identity, true
}

// RequireAdmin rejects requests whose session identity is not the
// administrator. It must run inside RequireSession, which injects the
// identity it checks.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || !identity.IsAdmin() {
				responder.writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{
					ErrorCode: "AUTH_FORBIDDEN",
					Message:   "Você não tem permissão para executar esta operação.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and records
// start and completion of every request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
