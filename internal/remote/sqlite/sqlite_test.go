package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/agenda-escolar/internal/remote"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate must be a no-op, got %v", err)
	}
}

func TestProfessorRepository_InsertFetchDelete(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Professors()
	ctx := context.Background()

	records := []remote.ProfessorRecord{
		{ID: "prof-2", Nome: "Maria Souza", Login: "maria.souza"},
		{ID: "prof-1", Nome: "João Silva", Login: "joão.silva"},
	}
	stored, err := repo.Insert(ctx, records)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(stored))
	}

	fetched, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(fetched) != 2 {
		t.Fatalf("expected 2 records, got %d", len(fetched))
	}
	if fetched[0].ID != "prof-1" {
		t.Fatalf("expected ID ordering, got %q first", fetched[0].ID)
	}

	if err := repo.Delete(ctx, "prof-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(ctx, "prof-1"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("deleting a missing record must return ErrNotFound, got %v", err)
	}

	fetched, err = repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(fetched) != 1 || fetched[0].ID != "prof-2" {
		t.Fatalf("unexpected remaining records %+v", fetched)
	}
}

func TestProfessorRepository_InsertBatchIsAtomic(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Professors()
	ctx := context.Background()

	if _, err := repo.Insert(ctx, []remote.ProfessorRecord{{ID: "prof-1", Nome: "João Silva", Login: "joão.silva"}}); err != nil {
		t.Fatalf("seed insert returned error: %v", err)
	}

	// duplicate primary key in the middle of the batch rolls the batch back
	_, err := repo.Insert(ctx, []remote.ProfessorRecord{
		{ID: "prof-2", Nome: "Maria Souza", Login: "maria.souza"},
		{ID: "prof-1", Nome: "Duplicado", Login: "duplicado"},
	})
	if err == nil {
		t.Fatal("expected an error for a duplicate ID")
	}

	fetched, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("failed batch must leave no partial rows, got %d records", len(fetched))
	}
}

func sampleRecord(id string) remote.AgendamentoRecord {
	return remote.AgendamentoRecord{
		ID:            id,
		Title:         "09:00 - 10:00 | Lab A (Ana Silva)",
		StartTime:     "2025-03-10T09:00:00",
		EndTime:       "2025-03-10T10:00:00",
		Turma:         "Lab A",
		ProfessorID:   "ana.silva",
		ProfessorNome: "Ana Silva",
	}
}

func TestAgendamentoRepository_InsertFetchUpdateDelete(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Agendamentos()
	ctx := context.Background()

	rec := sampleRecord("booking-1")
	stored, err := repo.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if stored != rec {
		t.Fatalf("stored record %+v, want %+v", stored, rec)
	}

	got, err := repo.Get(ctx, "booking-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != rec {
		t.Fatalf("fetched record %+v, want %+v", got, rec)
	}

	rec.StartTime = "2025-03-10T11:00:00"
	rec.EndTime = "2025-03-10T12:00:00"
	rec.Title = "11:00 - 12:00 | Lab A (Ana Silva)"
	if err := repo.Update(ctx, rec); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	fetched, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(fetched) != 1 || fetched[0].StartTime != "2025-03-10T11:00:00" {
		t.Fatalf("unexpected records after update %+v", fetched)
	}

	if err := repo.Delete(ctx, "booking-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.Get(ctx, "booking-1"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("fetching a deleted record must return ErrNotFound, got %v", err)
	}
}

func TestAgendamentoRepository_MissingRecordOperations(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Agendamentos()
	ctx := context.Background()

	if err := repo.Update(ctx, sampleRecord("missing")); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("updating a missing record must return ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("deleting a missing record must return ErrNotFound, got %v", err)
	}
}

func TestAgendamentoRepository_RejectsInvertedInterval(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Agendamentos()

	rec := sampleRecord("booking-1")
	rec.StartTime, rec.EndTime = rec.EndTime, rec.StartTime

	if _, err := repo.Insert(context.Background(), rec); err == nil {
		t.Fatal("the schema must reject intervals that do not end after they start")
	}
}

func TestAgendamentoRepository_FetchAllOrderedByStart(t *testing.T) {
	t.Parallel()

	repo := newTestStore(t).Agendamentos()
	ctx := context.Background()

	late := sampleRecord("late")
	late.StartTime = "2025-03-10T14:00:00"
	late.EndTime = "2025-03-10T15:00:00"
	early := sampleRecord("early")

	for _, rec := range []remote.AgendamentoRecord{late, early} {
		if _, err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}

	fetched, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(fetched) != 2 || fetched[0].ID != "early" {
		t.Fatalf("expected start time ordering, got %+v", fetched)
	}
}
