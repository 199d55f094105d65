package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// DirectoryCache is the local view of the professor directory.
type DirectoryCache interface {
	Put(a Account)
	PutAll(accounts []Account)
	Remove(id string)
	Get(id string) (Account, bool)
	FindByLogin(login string) (Account, bool)
	List() []Account
	ReplaceAll(accounts []Account)
	Clear()
}

// DirectoryRemote captures the durable-store interactions for the professor
// directory. InsertAccounts persists a batch atomically and returns the
// accounts as stored.
type DirectoryRemote interface {
	FetchAllAccounts(ctx context.Context) ([]Account, error)
	InsertAccounts(ctx context.Context, accounts []Account) ([]Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// DirectoryService manages professor accounts: bulk provisioning with derived
// logins, removal and credential lookup during sign-in.
type DirectoryService struct {
	cache       DirectoryCache
	remote      DirectoryRemote
	idGenerator func() string
	logger      *slog.Logger
}

// NewDirectoryService wires dependencies for directory operations.
func NewDirectoryService(cache DirectoryCache, remote DirectoryRemote, idGenerator func() string) *DirectoryService {
	return NewDirectoryServiceWithLogger(cache, remote, idGenerator, nil)
}

// NewDirectoryServiceWithLogger constructs a DirectoryService with a specified logger.
func NewDirectoryServiceWithLogger(cache DirectoryCache, remote DirectoryRemote, idGenerator func() string, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &DirectoryService{
		cache:       cache,
		remote:      remote,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// ListAccounts returns the directory entries currently held in the local
// view, ordered by display name.
func (s *DirectoryService) ListAccounts() []Account {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.List()
}

// Provision creates accounts for a batch of imported rows. Rows without a
// recognizable name get a placeholder name. Only administrators may
// provision accounts.
func (s *DirectoryService) Provision(ctx context.Context, identity Identity, rows []ImportRow) (created []Account, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}
	if s.cache == nil || s.remote == nil {
		err = fmt.Errorf("directory store not configured")
		return
	}

	logger := s.loggerWith(ctx, "Provision", "rows", len(rows))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "account provisioning failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("created", len(created)).InfoContext(ctx, "accounts provisioned")
	}()

	if !identity.IsAdmin() {
		err = ErrForbidden
		return
	}

	if len(rows) == 0 {
		err = &ValidationError{FieldErrors: map[string]string{"rows": ReasonMissingResource}}
		return
	}

	accounts := make([]Account, 0, len(rows))
	for _, row := range rows {
		nome := row.Nome()
		accounts = append(accounts, Account{
			ID:    s.idGenerator(),
			Nome:  nome,
			Login: DeriveLogin(nome),
		})
	}

	persisted, err := s.remote.InsertAccounts(ctx, accounts)
	if err != nil {
		err = mapRemoteError(err)
		return
	}

	s.cache.PutAll(persisted)
	created = persisted
	return
}

// Remove deletes a single account from the directory. Reservations made by
// the removed professor are left untouched. Only administrators may remove
// accounts.
func (s *DirectoryService) Remove(ctx context.Context, identity Identity, accountID string) (err error) {
	if s == nil {
		return fmt.Errorf("DirectoryService is nil")
	}
	if s.cache == nil || s.remote == nil {
		return fmt.Errorf("directory store not configured")
	}

	logger := s.loggerWith(ctx, "Remove", "account_id", accountID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "account removal failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "account removed")
	}()

	if !identity.IsAdmin() {
		err = ErrForbidden
		return
	}

	if _, ok := s.cache.Get(accountID); !ok {
		err = ErrNotFound
		return
	}

	if err = s.remote.DeleteAccount(ctx, accountID); err != nil {
		err = mapRemoteError(err)
		return
	}

	s.cache.Remove(accountID)
	return
}

// Refresh replaces the local directory view with the account set held by the
// remote store.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	if s == nil || s.cache == nil || s.remote == nil {
		return fmt.Errorf("directory store not configured")
	}

	accounts, err := s.remote.FetchAllAccounts(ctx)
	if err != nil {
		return mapRemoteError(err)
	}

	s.cache.ReplaceAll(accounts)
	return nil
}

// FindAccountByLogin resolves a login against the remote directory so that
// sign-in observes durable state rather than a possibly stale local view.
// When several accounts share a login, the one with the smallest ID wins.
func (s *DirectoryService) FindAccountByLogin(ctx context.Context, login string) (Account, error) {
	if s == nil || s.remote == nil {
		return Account{}, fmt.Errorf("directory store not configured")
	}

	accounts, err := s.remote.FetchAllAccounts(ctx)
	if err != nil {
		return Account{}, mapRemoteError(err)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	for _, a := range accounts {
		if a.Login == login {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

// DeriveLogin builds a login identifier from a display name: the first two
// lowercased words joined by a dot, or the single word when there is only
// one.
func DeriveLogin(nome string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(nome)))
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return fields[0] + "." + fields[1]
	}
}
