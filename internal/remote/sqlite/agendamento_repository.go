package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/agenda-escolar/internal/remote"
)

// AgendamentoRepository persists reservation records. Times are stored as
// text in the engine's wall-clock layout.
type AgendamentoRepository struct {
	db *sql.DB
}

var _ remote.AgendamentoRepository = (*AgendamentoRepository)(nil)

// FetchAll returns every reservation record, ordered by start time.
func (r *AgendamentoRepository) FetchAll(ctx context.Context) ([]remote.AgendamentoRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time, turma, professor_id, professor_nome
		 FROM agendamentos ORDER BY start_time, id`)
	if err != nil {
		return nil, fmt.Errorf("query agendamentos: %w", err)
	}
	defer rows.Close()

	var records []remote.AgendamentoRecord
	for rows.Next() {
		var rec remote.AgendamentoRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.StartTime, &rec.EndTime,
			&rec.Turma, &rec.ProfessorID, &rec.ProfessorNome); err != nil {
			return nil, fmt.Errorf("scan agendamento row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agendamento rows: %w", err)
	}
	return records, nil
}

// Insert stores a new reservation record and returns it as stored.
func (r *AgendamentoRepository) Insert(ctx context.Context, rec remote.AgendamentoRecord) (remote.AgendamentoRecord, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO agendamentos (id, title, start_time, end_time, turma, professor_id, professor_nome)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.StartTime, rec.EndTime, rec.Turma, rec.ProfessorID, rec.ProfessorNome,
	); err != nil {
		return remote.AgendamentoRecord{}, fmt.Errorf("insert agendamento: %w", err)
	}
	return rec, nil
}

// Update replaces the stored reservation record with the given ID.
func (r *AgendamentoRepository) Update(ctx context.Context, rec remote.AgendamentoRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE agendamentos
		 SET title = ?, start_time = ?, end_time = ?, turma = ?, professor_id = ?, professor_nome = ?
		 WHERE id = ?`,
		rec.Title, rec.StartTime, rec.EndTime, rec.Turma, rec.ProfessorID, rec.ProfessorNome, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update agendamento: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update agendamento: %w", err)
	}
	if affected == 0 {
		return remote.ErrNotFound
	}
	return nil
}

// Delete removes the reservation record with the given ID.
func (r *AgendamentoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM agendamentos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete agendamento: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete agendamento: %w", err)
	}
	if affected == 0 {
		return remote.ErrNotFound
	}
	return nil
}

// Get returns the reservation record with the given ID.
func (r *AgendamentoRepository) Get(ctx context.Context, id string) (remote.AgendamentoRecord, error) {
	var rec remote.AgendamentoRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, start_time, end_time, turma, professor_id, professor_nome
		 FROM agendamentos WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Title, &rec.StartTime, &rec.EndTime,
		&rec.Turma, &rec.ProfessorID, &rec.ProfessorNome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return remote.AgendamentoRecord{}, remote.ErrNotFound
		}
		return remote.AgendamentoRecord{}, fmt.Errorf("query agendamento: %w", err)
	}
	return rec, nil
}
