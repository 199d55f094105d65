// Package testfixtures provides deterministic builders shared by the test
// suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/agenda-escolar/internal/application"
	"github.com/example/agenda-escolar/internal/booking"
)

var (
	accountCounter uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.Local)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so weekday oriented scenarios read naturally.
func ReferenceTime() time.Time {
	return referenceTime
}

// AccountOption configures a generated account fixture.
type AccountOption func(*application.Account)

// NewAccountFixture returns a deterministic professor account with optional
// overrides.
func NewAccountFixture(opts ...AccountOption) application.Account {
	idx := atomic.AddUint64(&accountCounter, 1)
	nome := fmt.Sprintf("Professor %03d", idx)
	account := application.Account{
		ID:    fmt.Sprintf("prof-%03d", idx),
		Nome:  nome,
		Login: application.DeriveLogin(nome),
	}
	for _, opt := range opts {
		opt(&account)
	}
	return account
}

// WithAccountID overrides the generated account ID.
func WithAccountID(id string) AccountOption {
	return func(a *application.Account) {
		a.ID = id
	}
}

// WithAccountNome overrides the display name and rederives the login.
func WithAccountNome(nome string) AccountOption {
	return func(a *application.Account) {
		a.Nome = nome
		a.Login = application.DeriveLogin(nome)
	}
}

// BookingOption configures a generated booking fixture.
type BookingOption func(*application.Booking)

// NewBookingFixture returns a deterministic reservation with optional
// overrides. Each fixture occupies its own one hour slot after the reference
// time so fixtures never conflict unless a test arranges them to.
func NewBookingFixture(opts ...BookingOption) application.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	b := application.Booking{
		ID:            fmt.Sprintf("booking-%03d", idx),
		Start:         start,
		End:           start.Add(time.Hour),
		Turma:         "1º Ano A",
		ProfessorID:   "ana.silva",
		ProfessorNome: "Ana Silva",
	}
	b.Title = booking.Title(b.Start, b.End, b.Turma, b.ProfessorNome)
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *application.Booking) {
		b.ID = id
	}
}

// WithBookingInterval overrides the slot and regenerates the title.
func WithBookingInterval(start, end time.Time) BookingOption {
	return func(b *application.Booking) {
		b.Start = start
		b.End = end
		b.Title = booking.Title(b.Start, b.End, b.Turma, b.ProfessorNome)
	}
}

// WithBookingTurma overrides the turma and regenerates the title.
func WithBookingTurma(turma string) BookingOption {
	return func(b *application.Booking) {
		b.Turma = turma
		b.Title = booking.Title(b.Start, b.End, b.Turma, b.ProfessorNome)
	}
}

// WithBookingOwner overrides the owning professor and regenerates the title.
func WithBookingOwner(professorID, professorNome string) BookingOption {
	return func(b *application.Booking) {
		b.ProfessorID = professorID
		b.ProfessorNome = professorNome
		b.Title = booking.Title(b.Start, b.End, b.Turma, b.ProfessorNome)
	}
}
