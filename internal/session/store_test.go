package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/agenda-escolar/internal/application"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")

	first := NewFileStore(path)
	if err := first.Load(); err != nil {
		t.Fatalf("Load on a missing file must succeed, got %v", err)
	}
	if _, active := first.Current(); active {
		t.Fatal("a missing snapshot means no active session")
	}

	identity := application.Identity{Login: "ana.silva", Nome: "Ana Silva", Role: application.RoleProfessor}
	if err := first.Save(identity); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	second := NewFileStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	restored, active := second.Current()
	if !active {
		t.Fatal("expected an active session after restart")
	}
	if restored != identity {
		t.Fatalf("restored identity %+v, want %+v", restored, identity)
	}
}

func TestFileStore_ClearRemovesSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if err := s.Save(application.AdminIdentity()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	if _, active := s.Current(); active {
		t.Fatal("no session must remain after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Clear must remove the snapshot file")
	}

	// clearing again is harmless
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on a missing file must succeed, got %v", err)
	}
}

func TestFileStore_CorruptSnapshotIsDiscarded(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt snapshot: %v", err)
	}

	s := NewFileStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("a corrupt snapshot must not fail Load, got %v", err)
	}
	if _, active := s.Current(); active {
		t.Fatal("a corrupt snapshot means no active session")
	}
}

func TestFileStore_EmptyIdentityLoadsAsInactive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"login":"","nome":"","role":""}`), 0o600); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	s := NewFileStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, active := s.Current(); active {
		t.Fatal("an empty identity must not count as a session")
	}
}
