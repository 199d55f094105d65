package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/agenda-escolar/internal/remote"
)

// ProfessorRepository persists professor directory records.
type ProfessorRepository struct {
	db *sql.DB
}

var _ remote.ProfessorRepository = (*ProfessorRepository)(nil)

// FetchAll returns every professor record, ordered by ID.
func (r *ProfessorRepository) FetchAll(ctx context.Context) ([]remote.ProfessorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, login FROM professors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query professors: %w", err)
	}
	defer rows.Close()

	var records []remote.ProfessorRecord
	for rows.Next() {
		var rec remote.ProfessorRecord
		if err := rows.Scan(&rec.ID, &rec.Nome, &rec.Login); err != nil {
			return nil, fmt.Errorf("scan professor row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professor rows: %w", err)
	}
	return records, nil
}

// Insert stores a batch of professor records in a single transaction and
// returns them as stored.
func (r *ProfessorRepository) Insert(ctx context.Context, records []remote.ProfessorRecord) ([]remote.ProfessorRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO professors (id, nome, login) VALUES (?, ?, ?)`,
			rec.ID, rec.Nome, rec.Login,
		); err != nil {
			return nil, fmt.Errorf("insert professor %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return records, nil
}

// Delete removes the professor record with the given ID.
func (r *ProfessorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM professors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	if affected == 0 {
		return remote.ErrNotFound
	}
	return nil
}
