package booking

// Catalog is the fixed list of bookable turmas and shared spaces. It is
// static configuration: professors pick from it when creating a reservation,
// and two reservations only compete when they name the same entry.
type Catalog []string

// DefaultCatalog returns the school's turma and shared-space catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		"1º Ano A - Fundamental", "1º Ano B - Fundamental",
		"2º Ano A - Fundamental", "2º Ano B - Fundamental",
		"3º Ano A - Médio", "3º Ano B - Médio",
		"Laboratório de Informática", "Laboratório de Ciências",
		"Sala de Vídeo", "Quadra Poliesportiva", "Reunião Pedagógica",
	}
}

// Contains reports whether the catalog lists the given turma.
func (c Catalog) Contains(turma string) bool {
	for _, entry := range c {
		if entry == turma {
			return true
		}
	}
	return false
}
