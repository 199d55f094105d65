package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/example/agenda-escolar/internal/application"
)

type authService interface {
	Login(ctx context.Context, login string) (application.Identity, error)
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	service    authService
	store      sessions.Store
	sessionTTL int
	responder  responder
	logger     *slog.Logger
}

// NewAuthHandler builds the sign-in and sign-out endpoints. sessionTTL is the
// cookie lifetime in seconds.
func NewAuthHandler(service authService, store sessions.Store, sessionTTL int, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, store: store, sessionTTL: sessionTTL, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	login := strings.TrimSpace(strings.ToLower(req.Login))
	logger := h.log(r.Context(), "Login", "login", login)

	identity, err := h.service.Login(r.Context(), login)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
				ErrorCode: "AUTH_UNKNOWN_USER",
				Message:   errUserNotFound.Error(),
			})
			return
		}
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if err := h.saveSession(w, r, identity); err != nil {
		logger.ErrorContext(r.Context(), "failed to write session cookie", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
		return
	}

	logger.With("role", string(identity.Role)).InfoContext(r.Context(), "user signed in")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, identityResponse{
		Login: identity.Login,
		Nome:  identity.Nome,
		Role:  string(identity.Role),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Logout")

	if err := h.service.Logout(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.store != nil {
		session, err := h.store.Get(r, SessionCookieName)
		if err == nil {
			session.Options.MaxAge = -1
			if saveErr := session.Save(r, w); saveErr != nil {
				logger.ErrorContext(r.Context(), "failed to clear session cookie", "error", saveErr)
			}
		}
	}

	logger.InfoContext(r.Context(), "user signed out")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AuthHandler) saveSession(w http.ResponseWriter, r *http.Request, identity application.Identity) error {
	if h.store == nil {
		return nil
	}

	session, err := h.store.Get(r, SessionCookieName)
	if err != nil {
		// A stale or tampered cookie decodes with an error but still
		// yields a fresh session to overwrite it.
		session, err = h.store.New(r, SessionCookieName)
		if err != nil {
			return err
		}
	}

	session.Values["login"] = identity.Login
	session.Values["nome"] = identity.Nome
	session.Values["role"] = string(identity.Role)
	if h.sessionTTL > 0 {
		session.Options.MaxAge = h.sessionTTL
	}
	session.Options.HttpOnly = true
	session.Options.Path = "/"
	return session.Save(r, w)
}

type loginRequest struct {
	Login string `json:"login"`
}

type identityResponse struct {
	Login string `json:"login"`
	Nome  string `json:"nome"`
	Role  string `json:"role"`
}
