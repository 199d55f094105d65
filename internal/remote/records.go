// Package remote defines the record model and repository contracts of the
// durable backend. Records carry the persisted column names; translation to
// and from the engine's field names happens in the adapters that sit between
// the application services and these repositories, symmetrically on every
// read and write.
package remote

import "time"

// TimeLayout is the wall-clock text layout used for persisted instants.
// There is no offset component: instants are stored and interpreted as local
// time, without timezone normalization.
const TimeLayout = "2006-01-02T15:04:05"

// FormatTime renders an instant in the persisted layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime reads a persisted instant back as local wall-clock time.
func ParseTime(value string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, value, time.Local)
}

// ProfessorRecord is one row of the professors table.
type ProfessorRecord struct {
	ID    string
	Nome  string
	Login string
}

// AgendamentoRecord is one row of the agendamentos table. StartTime and
// EndTime hold instants in TimeLayout.
type AgendamentoRecord struct {
	ID            string
	Title         string
	StartTime     string
	EndTime       string
	Turma         string
	ProfessorID   string
	ProfessorNome string
}
