package bulkedit

import (
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// ApplyEdit applies a bulk edit to the given cells. Fields holding NoChange are
// left alone. ClosedReason is written whenever it is non-empty, whatever the
// other fields hold.
//
// The input snapshot is not modified. The returned snapshot shares unchanged
// sessions with it; changed lists the sessions that differ, in cell order.
// Cells without a session start from a default day session and are only
// created when the edit changes that default. An empty cell list is a no-op.
func ApplyEdit(snap Snapshot, cells []Cell, edit PendingEdit) (Snapshot, []domain.Session) {
	return applyEdit(snap, cells, edit, false)
}

func applyEdit(snap Snapshot, cells []Cell, edit PendingEdit, literal bool) (Snapshot, []domain.Session) {
	next := make(Snapshot, len(snap)+len(cells))
	for k, v := range snap {
		next[k] = v
	}

	var changed []domain.Session
	seen := make(map[string]bool, len(cells))
	for _, c := range cells {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		base, _ := next.Session(c)
		updated := applyFields(base, edit, literal)
		if updated == base {
			continue
		}
		next[key] = updated
		changed = append(changed, updated)
	}
	return next, changed
}

func applyFields(s domain.Session, e PendingEdit, literal bool) domain.Session {
	set := func(dst *string, v string) {
		if literal || v != NoChange {
			*dst = v
		}
	}

	if literal || e.SessionType != NoChange {
		s.SessionType = domain.SessionType(e.SessionType)
	}
	set(&s.Specialty, e.Specialty)
	set(&s.SurgeonID, e.SurgeonID)
	set(&s.AnaesthetistID, e.AnaesthetistID)
	set(&s.Notes, e.Notes)

	if literal || e.ClosedReason != "" {
		s.ClosedReason = e.ClosedReason
	}
	return s
}
