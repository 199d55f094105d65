package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/agenda-escolar/internal/application"
	"github.com/example/agenda-escolar/internal/booking"
	"github.com/example/agenda-escolar/internal/store"
	"github.com/example/agenda-escolar/internal/testfixtures"
)

// flowRemote accepts every write so the router test can drive the real
// scheduling service against the in-memory cache.
type flowRemote struct{}

func (flowRemote) FetchAllBookings(ctx context.Context) ([]application.Booking, error) {
	return nil, nil
}

func (flowRemote) InsertBooking(ctx context.Context, b application.Booking) (application.Booking, error) {
	return b, nil
}

func (flowRemote) UpdateBooking(ctx context.Context, b application.Booking) error { return nil }

func (flowRemote) DeleteBooking(ctx context.Context, id string) error { return nil }

// TestBookingFlowThroughRouter runs the real scheduling service behind the
// router: a professor signs in, creates a reservation and then has an
// overlapping one rejected with the occupant's name.
func TestBookingFlowThroughRouter(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("booking")
	service := application.NewBookingService(
		store.NewBookingStore(),
		flowRemote{},
		booking.DefaultCatalog(),
		ids.NextFunc(),
		clock.NowFunc(),
	)

	auth := &authServiceStub{identity: application.Identity{Login: "ana.silva", Nome: "Ana Silva", Role: application.RoleProfessor}}
	cookieStore := newTestCookieStore()
	handler := NewRouter(RouterConfig{
		Auth:         NewAuthHandler(auth, cookieStore, 3600, nil),
		Agendamentos: NewAgendamentoHandler(service, nil),
		SessionGuard: RequireSession(cookieStore, nil),
		AdminGuard:   RequireAdmin(nil),
	})

	cookies := signIn(t, handler, "ana.silva")

	start := clock.Now()
	end := clock.Advance(time.Hour)
	body, err := json.Marshal(bookingRequest{
		Turma: "1º Ano A - Fundamental",
		Start: start.Format(timeLayout),
		End:   end.Format(timeLayout),
	})
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest(http.MethodPost, "/agendamentos", string(body), cookies))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created bookingDTO
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID != "booking-1" {
		t.Fatalf("ID = %q, want deterministic booking-1", created.ID)
	}

	// Thirty minutes into the first reservation.
	overlapStart := start.Add(30 * time.Minute)
	body, err = json.Marshal(bookingRequest{
		Turma: "1º Ano A - Fundamental",
		Start: overlapStart.Format(timeLayout),
		End:   overlapStart.Add(time.Hour).Format(timeLayout),
	})
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest(http.MethodPost, "/agendamentos", string(body), cookies))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Conflito! Horário ocupado por: Ana Silva" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
