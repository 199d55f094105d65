package booking

import (
	"fmt"
	"time"
)

// Slot represents a reserved interval of one turma in the scheduling domain.
type Slot struct {
	ID        string
	Turma     string
	Start     time.Time
	End       time.Time
	OwnerName string
}

// FindConflict scans existing slots for one that collides with the candidate.
// A slot collides when it reserves the same turma, falls on the same calendar
// day as the candidate and its interval overlaps the candidate's. Intervals
// are half-open, so a slot ending exactly when another starts does not
// collide. The slot identified by editingID is skipped, allowing a slot to be
// rescheduled over its own previous interval.
func FindConflict(existing []Slot, candidate Slot, editingID string) (Slot, bool) {
	for _, slot := range existing {
		if editingID != "" && slot.ID == editingID {
			continue
		}
		if slot.Turma != candidate.Turma {
			continue
		}
		if !SameDay(candidate.Start, slot.Start) {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, slot.Start, slot.End) {
			return slot, true
		}
	}
	return Slot{}, false
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SameDay reports whether two instants fall on the same calendar day.
// Instants are compared as local wall-clock values, without timezone
// normalization.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Title synthesizes the display title for a reservation. The title is always
// derived from the authoritative time, turma and owner fields so the display
// can never drift from them.
func Title(start, end time.Time, turma, ownerName string) string {
	return fmt.Sprintf("%s - %s | %s (%s)", start.Format("15:04"), end.Format("15:04"), turma, ownerName)
}
