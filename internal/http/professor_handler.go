package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/agenda-escolar/internal/application"
)

type directoryService interface {
	ListAccounts() []application.Account
	Provision(ctx context.Context, identity application.Identity, rows []application.ImportRow) ([]application.Account, error)
	Remove(ctx context.Context, identity application.Identity, accountID string) error
	Refresh(ctx context.Context) error
}

type ProfessorHandler struct {
	service   directoryService
	responder responder
	logger    *slog.Logger
}

func NewProfessorHandler(service directoryService, logger *slog.Logger) *ProfessorHandler {
	base := defaultLogger(logger)
	return &ProfessorHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProfessorHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProfessorHandler", operation, attrs...)
}

// List refreshes the local directory view from the remote store and returns
// it. When the remote store is unreachable the stale local view is served.
func (h *ProfessorHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.Refresh(r.Context()); err != nil {
		h.log(r.Context(), "List").WarnContext(r.Context(), "refresh failed, serving cached accounts", "error", err)
	}

	accounts := h.service.ListAccounts()
	payload := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		payload = append(payload, accountDTO{ID: a.ID, Nome: a.Nome, Login: a.Login})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Import provisions accounts for a batch of imported rows.
func (h *ProfessorHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var rows []application.ImportRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if len(rows) == 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errEmptyImportBatch)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	logger := h.log(r.Context(), "Import", "rows", len(rows))

	created, err := h.service.Provision(r.Context(), identity, rows)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("created", len(created)).InfoContext(r.Context(), "professors imported")

	payload := make([]accountDTO, 0, len(created))
	for _, a := range created {
		payload = append(payload, accountDTO{ID: a.ID, Nome: a.Nome, Login: a.Login})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, payload)
}

func (h *ProfessorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	accountID, ok := RecordIDFromContext(r.Context())
	if !ok || strings.TrimSpace(accountID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	if err := h.service.Remove(r.Context(), identity, accountID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type accountDTO struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Login string `json:"login"`
}
