package application

import "time"

// Role labels what an authenticated identity is allowed to do.
type Role string

const (
	// RoleAdmin marks the singleton administrator identity.
	RoleAdmin Role = "admin"
	// RoleProfessor marks an identity backed by a directory account.
	RoleProfessor Role = "professor"
)

// AdminLogin is the reserved identifier that authenticates as the
// administrator without consulting the directory.
const AdminLogin = "admin"

// AdminNome is the administrator's display name.
const AdminNome = "Administrador"

// Identity represents the authenticated user invoking a service method.
type Identity struct {
	Login string
	Nome  string
	Role  Role
}

// AdminIdentity returns the singleton administrator identity. It has no
// backing directory account.
func AdminIdentity() Identity {
	return Identity{Login: AdminLogin, Nome: AdminNome, Role: RoleAdmin}
}

// IsAdmin reports whether the identity is the administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsProfessor reports whether the identity is a directory-backed professor.
func (i Identity) IsProfessor() bool {
	return i.Role == RoleProfessor
}

// IsZero reports whether the identity is unset (logged out).
func (i Identity) IsZero() bool {
	return i.Login == "" && i.Nome == "" && i.Role == ""
}

// Account represents one professor entry in the directory.
type Account struct {
	ID    string
	Nome  string
	Login string
}

// Booking represents one reservation of a turma for one interval by one
// professor. Title is always synthesized from the other fields, and
// ProfessorNome is a denormalized copy of the owner's name fixed at creation.
type Booking struct {
	ID            string
	Title         string
	Start         time.Time
	End           time.Time
	Turma         string
	ProfessorID   string
	ProfessorNome string
}

// BookingInput captures caller provided reservation fields. Title and
// ownership are never accepted as input.
type BookingInput struct {
	Turma string
	Start time.Time
	End   time.Time
}

// ImportRow is one raw row of a bulk professor import, keyed by the source
// column headers. Only the name-bearing column ("Nome" or "name") is
// consulted.
type ImportRow map[string]string

// PlaceholderNome is assigned to import rows that carry no name field, so a
// malformed row never fails the batch.
const PlaceholderNome = "Sem Nome"

// Nome returns the row's name field, falling back to PlaceholderNome when
// neither recognized column is present.
func (r ImportRow) Nome() string {
	if nome, ok := r["Nome"]; ok && nome != "" {
		return nome
	}
	if nome, ok := r["name"]; ok && nome != "" {
		return nome
	}
	return PlaceholderNome
}
