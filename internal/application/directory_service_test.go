package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/agenda-escolar/internal/remote"
)

type directoryCacheStub struct {
	accounts map[string]Account
	cleared  bool
}

func newDirectoryCacheStub(seed ...Account) *directoryCacheStub {
	stub := &directoryCacheStub{accounts: make(map[string]Account)}
	for _, a := range seed {
		stub.accounts[a.ID] = a
	}
	return stub
}

func (s *directoryCacheStub) Put(a Account) {
	s.accounts[a.ID] = a
}

func (s *directoryCacheStub) PutAll(accounts []Account) {
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
}

func (s *directoryCacheStub) Remove(id string) {
	delete(s.accounts, id)
}

func (s *directoryCacheStub) Get(id string) (Account, bool) {
	a, ok := s.accounts[id]
	return a, ok
}

func (s *directoryCacheStub) FindByLogin(login string) (Account, bool) {
	for _, a := range s.accounts {
		if a.Login == login {
			return a, true
		}
	}
	return Account{}, false
}

func (s *directoryCacheStub) List() []Account {
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out
}

func (s *directoryCacheStub) ReplaceAll(accounts []Account) {
	s.accounts = make(map[string]Account, len(accounts))
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
}

func (s *directoryCacheStub) Clear() {
	s.cleared = true
	s.accounts = make(map[string]Account)
}

type directoryRemoteStub struct {
	list      []Account
	inserted  [][]Account
	deleted   []string
	fetchErr  error
	insertErr error
	deleteErr error
}

func (s *directoryRemoteStub) FetchAllAccounts(ctx context.Context) ([]Account, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]Account, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *directoryRemoteStub) InsertAccounts(ctx context.Context, accounts []Account) ([]Account, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = append(s.inserted, accounts)
	return accounts, nil
}

func (s *directoryRemoteStub) DeleteAccount(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestDirectoryService(cache DirectoryCache, remote DirectoryRemote) *DirectoryService {
	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("prof-%d", counter)
	}
	return NewDirectoryService(cache, remote, idGen)
}

func TestDeriveLogin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		nome string
		want string
	}{
		{"João Silva", "joão.silva"},
		{"  Maria  Souza Lima  ", "maria.souza"},
		{"Madonna", "madonna"},
		{"ANA SILVA", "ana.silva"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := DeriveLogin(tc.nome); got != tc.want {
			t.Fatalf("DeriveLogin(%q) = %q, want %q", tc.nome, got, tc.want)
		}
	}
}

func TestDirectoryService_Provision(t *testing.T) {
	t.Parallel()

	cache := newDirectoryCacheStub()
	remoteStub := &directoryRemoteStub{}
	svc := newTestDirectoryService(cache, remoteStub)

	rows := []ImportRow{
		{"Nome": "João Silva"},
		{"name": "Maria Souza"},
		{"Email": "sem.nome@example.com"},
	}

	created, err := svc.Provision(context.Background(), AdminIdentity(), rows)
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(created))
	}

	if created[0].Login != "joão.silva" {
		t.Fatalf("unexpected login %q", created[0].Login)
	}
	if created[1].Nome != "Maria Souza" {
		t.Fatalf("row keyed by lowercase name must be recognized, got %q", created[1].Nome)
	}
	if created[2].Nome != PlaceholderNome {
		t.Fatalf("nameless row must get the placeholder name, got %q", created[2].Nome)
	}

	if len(remoteStub.inserted) != 1 {
		t.Fatalf("expected a single remote batch insert, got %d", len(remoteStub.inserted))
	}
	if len(cache.List()) != 3 {
		t.Fatal("provisioned accounts must be applied to the local view")
	}
}

func TestDirectoryService_Provision_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	remoteStub := &directoryRemoteStub{}
	svc := newTestDirectoryService(newDirectoryCacheStub(), remoteStub)

	_, err := svc.Provision(context.Background(), professorIdentity("ana.silva", "Ana Silva"), []ImportRow{{"Nome": "João Silva"}})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(remoteStub.inserted) != 0 {
		t.Fatal("forbidden provisioning must not reach the remote store")
	}
}

func TestDirectoryService_Provision_EmptyBatch(t *testing.T) {
	t.Parallel()

	svc := newTestDirectoryService(newDirectoryCacheStub(), &directoryRemoteStub{})

	_, err := svc.Provision(context.Background(), AdminIdentity(), nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDirectoryService_Provision_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	cache := newDirectoryCacheStub()
	remoteStub := &directoryRemoteStub{insertErr: errors.New("connection refused")}
	svc := newTestDirectoryService(cache, remoteStub)

	_, err := svc.Provision(context.Background(), AdminIdentity(), []ImportRow{{"Nome": "João Silva"}})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(cache.List()) != 0 {
		t.Fatal("a failed remote insert must not touch the local view")
	}
}

func TestDirectoryService_Remove(t *testing.T) {
	t.Parallel()

	account := Account{ID: "prof-1", Nome: "João Silva", Login: "joão.silva"}

	t.Run("admin removes", func(t *testing.T) {
		t.Parallel()
		cache := newDirectoryCacheStub(account)
		remoteStub := &directoryRemoteStub{}
		svc := newTestDirectoryService(cache, remoteStub)

		if err := svc.Remove(context.Background(), AdminIdentity(), "prof-1"); err != nil {
			t.Fatalf("Remove returned error: %v", err)
		}
		if len(remoteStub.deleted) != 1 || remoteStub.deleted[0] != "prof-1" {
			t.Fatalf("expected remote delete of prof-1, got %v", remoteStub.deleted)
		}
		if _, ok := cache.Get("prof-1"); ok {
			t.Fatal("removed account must leave the local view")
		}
	})

	t.Run("professor forbidden", func(t *testing.T) {
		t.Parallel()
		svc := newTestDirectoryService(newDirectoryCacheStub(account), &directoryRemoteStub{})

		err := svc.Remove(context.Background(), professorIdentity("ana.silva", "Ana Silva"), "prof-1")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		svc := newTestDirectoryService(newDirectoryCacheStub(), &directoryRemoteStub{})

		err := svc.Remove(context.Background(), AdminIdentity(), "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDirectoryService_FindAccountByLogin(t *testing.T) {
	t.Parallel()

	remoteStub := &directoryRemoteStub{list: []Account{
		{ID: "prof-2", Nome: "João Silva Segundo", Login: "joão.silva"},
		{ID: "prof-1", Nome: "João Silva", Login: "joão.silva"},
		{ID: "prof-3", Nome: "Maria Souza", Login: "maria.souza"},
	}}
	svc := newTestDirectoryService(newDirectoryCacheStub(), remoteStub)

	account, err := svc.FindAccountByLogin(context.Background(), "joão.silva")
	if err != nil {
		t.Fatalf("FindAccountByLogin returned error: %v", err)
	}
	if account.ID != "prof-1" {
		t.Fatalf("duplicate logins must resolve to the smallest ID, got %q", account.ID)
	}

	if _, err := svc.FindAccountByLogin(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	remoteStub.fetchErr = errors.New("connection refused")
	if _, err := svc.FindAccountByLogin(context.Background(), "joão.silva"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDirectoryService_FindAccountByLogin_RemoteMissingMapsToNotFound(t *testing.T) {
	t.Parallel()

	remoteStub := &directoryRemoteStub{fetchErr: remote.ErrNotFound}
	svc := newTestDirectoryService(newDirectoryCacheStub(), remoteStub)

	_, err := svc.FindAccountByLogin(context.Background(), "joão.silva")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectoryService_Refresh(t *testing.T) {
	t.Parallel()

	stale := Account{ID: "stale", Nome: "Removido", Login: "removido"}
	fresh := Account{ID: "fresh", Nome: "Maria Souza", Login: "maria.souza"}

	cache := newDirectoryCacheStub(stale)
	remoteStub := &directoryRemoteStub{list: []Account{fresh}}
	svc := newTestDirectoryService(cache, remoteStub)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, ok := cache.Get("stale"); ok {
		t.Fatal("refresh must replace the whole local view")
	}
	if _, ok := cache.Get("fresh"); !ok {
		t.Fatal("refresh must apply the remote set")
	}
}
