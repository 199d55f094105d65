package remote

import "context"

// ProfessorRepository exposes the remote operations on the professors table.
// Insert returns the records as stored, with any server-assigned fields
// merged back.
type ProfessorRepository interface {
	FetchAll(ctx context.Context) ([]ProfessorRecord, error)
	Insert(ctx context.Context, records []ProfessorRecord) ([]ProfessorRecord, error)
	Delete(ctx context.Context, id string) error
}

// AgendamentoRepository exposes the remote operations on the agendamentos
// table.
type AgendamentoRepository interface {
	FetchAll(ctx context.Context) ([]AgendamentoRecord, error)
	Insert(ctx context.Context, record AgendamentoRecord) (AgendamentoRecord, error)
	Update(ctx context.Context, record AgendamentoRecord) error
	Delete(ctx context.Context, id string) error
}
