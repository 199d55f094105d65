// Package store holds the in-memory local views of the reservation
// collection and the professor directory. Both stores are safe for
// concurrent use and hand out copies, never internal state.
package store

import (
	"sort"
	"sync"

	"github.com/example/agenda-escolar/internal/application"
)

// BookingStore is the local reservation view backing the scheduling core.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]application.Booking
}

var _ application.BookingCache = (*BookingStore)(nil)

// NewBookingStore returns an empty reservation view.
func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[string]application.Booking)}
}

// Put inserts or replaces a reservation.
func (s *BookingStore) Put(b application.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

// Remove deletes a reservation. Removing an unknown ID is a no-op.
func (s *BookingStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookings, id)
}

// Get returns the reservation with the given ID.
func (s *BookingStore) Get(id string) (application.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	return b, ok
}

// List returns all reservations ordered by start time, then ID.
func (s *BookingStore) List() []application.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]application.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ReplaceAll swaps the entire view for the given set.
func (s *BookingStore) ReplaceAll(bookings []application.Booking) {
	next := make(map[string]application.Booking, len(bookings))
	for _, b := range bookings {
		next[b.ID] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = next
}

// Clear empties the view.
func (s *BookingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[string]application.Booking)
}

// DirectoryStore is the local professor directory view.
type DirectoryStore struct {
	mu       sync.RWMutex
	accounts map[string]application.Account
}

var _ application.DirectoryCache = (*DirectoryStore)(nil)

// NewDirectoryStore returns an empty directory view.
func NewDirectoryStore() *DirectoryStore {
	return &DirectoryStore{accounts: make(map[string]application.Account)}
}

// Put inserts or replaces an account.
func (s *DirectoryStore) Put(a application.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
}

// PutAll inserts or replaces a batch of accounts.
func (s *DirectoryStore) PutAll(accounts []application.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
}

// Remove deletes an account. Removing an unknown ID is a no-op.
func (s *DirectoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
}

// Get returns the account with the given ID.
func (s *DirectoryStore) Get(id string) (application.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	return a, ok
}

// FindByLogin returns the account with the given login. When several
// accounts share a login, the one with the smallest ID wins.
func (s *DirectoryStore) FindByLogin(login string) (application.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if s.accounts[id].Login == login {
			return s.accounts[id], true
		}
	}
	return application.Account{}, false
}

// List returns all accounts ordered by display name, then ID.
func (s *DirectoryStore) List() []application.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]application.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nome != out[j].Nome {
			return out[i].Nome < out[j].Nome
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ReplaceAll swaps the entire view for the given set.
func (s *DirectoryStore) ReplaceAll(accounts []application.Account) {
	next := make(map[string]application.Account, len(accounts))
	for _, a := range accounts {
		next[a.ID] = a
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = next
}

// Clear empties the view.
func (s *DirectoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]application.Account)
}
