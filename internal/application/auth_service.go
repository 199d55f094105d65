package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SessionStore persists the active identity across process restarts.
type SessionStore interface {
	Current() (Identity, bool)
	Save(identity Identity) error
	Clear() error
}

// DirectoryLookup resolves a login identifier to a directory account.
type DirectoryLookup interface {
	FindAccountByLogin(ctx context.Context, login string) (Account, error)
}

// AuthService signs professors and the administrator in and out. Sign-in is
// identifier-only: possession of a known login grants access.
type AuthService struct {
	directory DirectoryLookup
	sessions  SessionStore
	bookings  BookingCache
	refresh   func(ctx context.Context)
	logger    *slog.Logger
}

// NewAuthService wires dependencies for sign-in and sign-out. refresh is
// invoked asynchronously after a successful sign-in to warm the local views;
// it may be nil.
func NewAuthService(directory DirectoryLookup, sessions SessionStore, bookings BookingCache, refresh func(ctx context.Context)) *AuthService {
	return NewAuthServiceWithLogger(directory, sessions, bookings, refresh, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(directory DirectoryLookup, sessions SessionStore, bookings BookingCache, refresh func(ctx context.Context), logger *slog.Logger) *AuthService {
	return &AuthService{
		directory: directory,
		sessions:  sessions,
		bookings:  bookings,
		refresh:   refresh,
		logger:    defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login resolves the submitted identifier to an identity. The administrator
// identifier is recognized locally, before any directory access, so the
// administrator can always sign in even when the remote store is down.
func (s *AuthService) Login(ctx context.Context, login string) (identity Identity, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(login))

	logger := s.loggerWith(ctx, "Login", "login", normalized)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("role", string(identity.Role)).InfoContext(ctx, "login succeeded")
	}()

	if normalized == "" {
		err = ErrNotFound
		return
	}

	if normalized == AdminLogin {
		identity = AdminIdentity()
	} else {
		if s.directory == nil {
			err = fmt.Errorf("directory not configured")
			return
		}
		var account Account
		if account, err = s.directory.FindAccountByLogin(ctx, normalized); err != nil {
			identity = Identity{}
			return
		}
		identity = Identity{Login: account.Login, Nome: account.Nome, Role: RoleProfessor}
	}

	// A failed session write must not undo a successful sign-in; the
	// identity just won't survive a restart.
	if s.sessions != nil {
		if saveErr := s.sessions.Save(identity); saveErr != nil {
			logger.WarnContext(ctx, "session snapshot write failed", "error", saveErr)
		}
	}

	if s.refresh != nil {
		go s.refresh(context.WithoutCancel(ctx))
	}
	return
}

// Logout clears the active identity and the local reservation view. It is a
// purely local operation and never fails because of the remote store.
func (s *AuthService) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "Logout")

	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			logger.WarnContext(ctx, "session snapshot clear failed", "error", err)
		}
	}
	if s.bookings != nil {
		s.bookings.Clear()
	}

	logger.InfoContext(ctx, "logout completed")
	return nil
}

// Current returns the identity restored from the session snapshot, if any.
func (s *AuthService) Current() (Identity, bool) {
	if s == nil || s.sessions == nil {
		return Identity{}, false
	}
	return s.sessions.Current()
}
