package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/agenda-escolar/internal/booking"
	"github.com/example/agenda-escolar/internal/remote"
)

// BookingCache is the local, optimistic view of the reservation collection.
// It is only ever updated after a successful remote round trip, so its
// contents always mirror durable state last known to this process.
type BookingCache interface {
	Put(b Booking)
	Remove(id string)
	Get(id string) (Booking, bool)
	List() []Booking
	ReplaceAll(bookings []Booking)
	Clear()
}

// BookingRemote captures the durable-store interactions needed by the
// service. Insert returns the reservation as stored, with server-assigned
// fields merged back.
type BookingRemote interface {
	FetchAllBookings(ctx context.Context) ([]Booking, error)
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// BookingService is the scheduling core: it validates proposed reservations,
// runs conflict detection against the local view, authorizes mutations by
// ownership and writes through the remote store before touching local state.
type BookingService struct {
	cache       BookingCache
	remote      BookingRemote
	catalog     booking.Catalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for reservation operations.
func NewBookingService(cache BookingCache, remote BookingRemote, catalog booking.Catalog, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(cache, remote, catalog, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a BookingService with a specified logger.
func NewBookingServiceWithLogger(cache BookingCache, remote BookingRemote, catalog booking.Catalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		cache:       cache,
		remote:      remote,
		catalog:     catalog,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// Turmas returns the fixed catalog of bookable turmas and shared spaces.
func (s *BookingService) Turmas() booking.Catalog {
	if s == nil {
		return nil
	}
	out := make(booking.Catalog, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// ListBookings returns the reservations currently held in the local view,
// ordered by start time.
func (s *BookingService) ListBookings() []Booking {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.List()
}

// CreateBooking validates, authorizes and conflict-checks a proposed
// reservation, persists it remotely and only then applies it locally.
func (s *BookingService) CreateBooking(ctx context.Context, identity Identity, input BookingInput) (created Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.cache == nil || s.remote == nil {
		err = fmt.Errorf("booking store not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"professor_id", identity.Login,
		"turma", input.Turma,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", created.ID).InfoContext(ctx, "booking created")
	}()

	if err = validateBookingInput(input); err != nil {
		return
	}

	if !identity.IsProfessor() {
		err = ErrForbidden
		return
	}

	if err = s.findConflict(input, ""); err != nil {
		return
	}

	candidate := Booking{
		ID:            s.idGenerator(),
		Title:         booking.Title(input.Start, input.End, input.Turma, identity.Nome),
		Start:         input.Start,
		End:           input.End,
		Turma:         input.Turma,
		ProfessorID:   identity.Login,
		ProfessorNome: identity.Nome,
	}

	persisted, err := s.remote.InsertBooking(ctx, candidate)
	if err != nil {
		err = mapRemoteError(err)
		return
	}

	s.cache.Put(persisted)
	created = persisted
	return
}

// UpdateBooking reschedules an existing reservation. Only the owning
// professor may update it; everyone else is refused locally, without a
// remote call.
func (s *BookingService) UpdateBooking(ctx context.Context, identity Identity, bookingID string, input BookingInput) (updated Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.cache == nil || s.remote == nil {
		err = fmt.Errorf("booking store not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateBooking",
		"professor_id", identity.Login,
		"booking_id", bookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	existing, ok := s.cache.Get(bookingID)
	if !ok {
		err = ErrNotFound
		return
	}

	if err = validateBookingInput(input); err != nil {
		return
	}

	if existing.ProfessorID != identity.Login {
		err = ErrForbidden
		return
	}

	if err = s.findConflict(input, bookingID); err != nil {
		return
	}

	next := existing
	next.Turma = input.Turma
	next.Start = input.Start
	next.End = input.End
	next.Title = booking.Title(input.Start, input.End, input.Turma, existing.ProfessorNome)

	if err = s.remote.UpdateBooking(ctx, next); err != nil {
		err = mapRemoteError(err)
		return
	}

	s.cache.Put(next)
	updated = next
	return
}

// DeleteBooking cancels a reservation. Only the owning professor may delete
// it.
func (s *BookingService) DeleteBooking(ctx context.Context, identity Identity, bookingID string) (err error) {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.cache == nil || s.remote == nil {
		return fmt.Errorf("booking store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteBooking",
		"professor_id", identity.Login,
		"booking_id", bookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking deletion failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking deleted")
	}()

	existing, ok := s.cache.Get(bookingID)
	if !ok {
		err = ErrNotFound
		return
	}

	if existing.ProfessorID != identity.Login {
		err = ErrForbidden
		return
	}

	if err = s.remote.DeleteBooking(ctx, bookingID); err != nil {
		err = mapRemoteError(err)
		return
	}

	s.cache.Remove(bookingID)
	return
}

// Refresh replaces the local view with the full reservation set held by the
// remote store. The last refresh to resolve wins over local state.
func (s *BookingService) Refresh(ctx context.Context) error {
	if s == nil || s.cache == nil || s.remote == nil {
		return fmt.Errorf("booking store not configured")
	}

	bookings, err := s.remote.FetchAllBookings(ctx)
	if err != nil {
		return mapRemoteError(err)
	}

	s.cache.ReplaceAll(bookings)
	return nil
}

func (s *BookingService) findConflict(input BookingInput, editingID string) error {
	existing := s.cache.List()
	slots := make([]booking.Slot, 0, len(existing))
	for _, b := range existing {
		slots = append(slots, booking.Slot{
			ID:        b.ID,
			Turma:     b.Turma,
			Start:     b.Start,
			End:       b.End,
			OwnerName: b.ProfessorNome,
		})
	}

	candidate := booking.Slot{Turma: input.Turma, Start: input.Start, End: input.End}
	if occupied, found := booking.FindConflict(slots, candidate, editingID); found {
		return &ConflictError{OccupiedBy: occupied.OwnerName}
	}
	return nil
}

// validateBookingInput checks the turma selection before the interval, so a
// missing turma is reported even when the times are also wrong.
func validateBookingInput(input BookingInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Turma) == "" {
		vErr.add("turma", ReasonMissingResource)
	}

	if !input.End.After(input.Start) {
		vErr.add("time", ReasonBadInterval)
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func mapRemoteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, remote.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
