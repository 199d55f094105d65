package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/agenda-escolar/internal/application"
	"github.com/example/agenda-escolar/internal/booking"
)

// timeLayout is the wall-clock format used on the wire. Times carry no zone;
// they are interpreted in the server's local time.
const timeLayout = "2006-01-02T15:04:05"

type bookingService interface {
	CreateBooking(ctx context.Context, identity application.Identity, input application.BookingInput) (application.Booking, error)
	UpdateBooking(ctx context.Context, identity application.Identity, bookingID string, input application.BookingInput) (application.Booking, error)
	DeleteBooking(ctx context.Context, identity application.Identity, bookingID string) error
	ListBookings() []application.Booking
	Refresh(ctx context.Context) error
	Turmas() booking.Catalog
}

type AgendamentoHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewAgendamentoHandler(service bookingService, logger *slog.Logger) *AgendamentoHandler {
	base := defaultLogger(logger)
	return &AgendamentoHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AgendamentoHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AgendamentoHandler", operation, attrs...)
}

// List refreshes the local view from the remote store and returns it. When
// the remote store is unreachable the stale local view is served instead.
func (h *AgendamentoHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.Refresh(r.Context()); err != nil {
		h.log(r.Context(), "List").WarnContext(r.Context(), "refresh failed, serving cached bookings", "error", err)
	}

	bookings := h.service.ListBookings()
	payload := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		payload = append(payload, toBookingDTO(b))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *AgendamentoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadTimeFormat)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	created, err := h.service.CreateBooking(r.Context(), identity, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(created))
}

func (h *AgendamentoHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := RecordIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadTimeFormat)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	updated, err := h.service.UpdateBooking(r.Context(), identity, bookingID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(updated))
}

func (h *AgendamentoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := RecordIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	if err := h.service.DeleteBooking(r.Context(), identity, bookingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Turmas returns the fixed catalog of bookable turmas.
func (h *AgendamentoHandler) Turmas(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.service.Turmas())
}

type bookingRequest struct {
	Turma string `json:"turma"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (req bookingRequest) toInput() (application.BookingInput, error) {
	start, err := time.ParseInLocation(timeLayout, req.Start, time.Local)
	if err != nil {
		return application.BookingInput{}, err
	}
	end, err := time.ParseInLocation(timeLayout, req.End, time.Local)
	if err != nil {
		return application.BookingInput{}, err
	}
	return application.BookingInput{Turma: req.Turma, Start: start, End: end}, nil
}

type bookingDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Turma         string `json:"turma"`
	ProfessorID   string `json:"professor_id"`
	ProfessorNome string `json:"professor_nome"`
}

func toBookingDTO(b application.Booking) bookingDTO {
	return bookingDTO{
		ID:            b.ID,
		Title:         b.Title,
		Start:         b.Start.Format(timeLayout),
		End:           b.End.Format(timeLayout),
		Turma:         b.Turma,
		ProfessorID:   b.ProfessorID,
		ProfessorNome: b.ProfessorNome,
	}
}
