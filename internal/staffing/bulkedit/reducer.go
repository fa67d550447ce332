package bulkedit

import (
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// Outcome describes the effect of a committed edit. It is empty for every
// other event.
type Outcome struct {
	Committed bool
	Snapshot  Snapshot
	Changed   []domain.Session
}

// Reduce applies an event to the state. The snapshot is read to seed
// single-cell edits, to exclude closed cells from column selection and as the
// base of a commit; it is never modified.
func Reduce(s State, ev Event, snap Snapshot) (State, Outcome) {
	switch e := ev.(type) {
	case CellClicked:
		return click(s, e.Cell, e.Modifier, snap), Outcome{}

	case CellLongPressed:
		return click(s, e.Cell, e.Held >= LongPressThreshold, snap), Outcome{}

	case DragStarted:
		if s.Mode == Editing {
			return s, Outcome{}
		}
		s = withCells(s, e.Cell)
		s.Mode = Selecting
		s.Dragging = true
		return s, Outcome{}

	case DragEntered:
		if !s.Dragging || s.Mode != Selecting {
			return s, Outcome{}
		}
		return withCells(s, e.Cell), Outcome{}

	case DragEnded:
		s.Dragging = false
		return s, Outcome{}

	case ColumnSelected:
		if s.Mode == Editing {
			return s, Outcome{}
		}
		cells := make([]Cell, 0, len(e.Dates))
		for _, date := range e.Dates {
			c := Cell{TheatreID: e.TheatreID, Date: date}
			if closedCell(snap, c) {
				continue
			}
			cells = append(cells, c)
		}
		s = withoutClosed(s, e.TheatreID, snap)
		s = withCells(s, cells...)
		if len(s.Selection) == 0 {
			return State{}, Outcome{}
		}
		s.Mode = Selecting
		return s, Outcome{}

	case EditorOpened:
		if s.Mode != Selecting {
			return s, Outcome{}
		}
		s.Mode = Editing
		s.Single = false
		s.Dragging = false
		s.Pending = NoChangeEdit()
		return s, Outcome{}

	case FieldChanged:
		if s.Mode != Editing {
			return s, Outcome{}
		}
		s.Pending = s.Pending.With(e.Field, e.Value)
		s.Dropdown = ""
		return s, Outcome{}

	case DropdownToggled:
		if s.Mode != Editing {
			return s, Outcome{}
		}
		if s.Dropdown == e.Field {
			s.Dropdown = ""
		} else {
			s.Dropdown = e.Field
		}
		return s, Outcome{}

	case Committed:
		if s.Mode != Editing {
			return s, Outcome{}
		}
		var (
			next    Snapshot
			changed []domain.Session
		)
		if s.Single {
			next, changed = applyEdit(snap, s.Selection, s.Pending, true)
		} else {
			next, changed = ApplyEdit(snap, s.Selection, s.Pending)
		}
		return State{}, Outcome{Committed: true, Snapshot: next, Changed: changed}

	case Cancelled:
		return State{}, Outcome{}

	default:
		return s, Outcome{}
	}
}

// click handles plain, modifier and long-press activation of a cell
func click(s State, c Cell, modifier bool, snap Snapshot) State {
	switch s.Mode {
	case Idle:
		if !modifier {
			session, _ := snap.Session(c)
			return State{
				Mode:      Editing,
				Selection: []Cell{c},
				Pending:   EditFor(session),
				Single:    true,
			}
		}
		return State{Mode: Selecting, Selection: []Cell{c}}

	case Selecting:
		s = toggle(s, c)
		if len(s.Selection) == 0 {
			return State{}
		}
		return s

	default:
		return s
	}
}

// withCells returns the state with cells appended, skipping ones already selected
func withCells(s State, cells ...Cell) State {
	sel := make([]Cell, len(s.Selection), len(s.Selection)+len(cells))
	copy(sel, s.Selection)
	for _, c := range cells {
		if indexOf(sel, c) < 0 {
			sel = append(sel, c)
		}
	}
	s.Selection = sel
	return s
}

func closedCell(snap Snapshot, c Cell) bool {
	session, ok := snap.Session(c)
	return ok && session.SessionType == domain.SessionClosed
}

// withoutClosed drops closed cells of one theatre column from the selection.
func withoutClosed(s State, theatreID string, snap Snapshot) State {
	sel := make([]Cell, 0, len(s.Selection))
	for _, c := range s.Selection {
		if c.TheatreID == theatreID && closedCell(snap, c) {
			continue
		}
		sel = append(sel, c)
	}
	s.Selection = sel
	return s
}

func toggle(s State, c Cell) State {
	i := indexOf(s.Selection, c)
	if i < 0 {
		return withCells(s, c)
	}
	sel := make([]Cell, 0, len(s.Selection)-1)
	sel = append(sel, s.Selection[:i]...)
	sel = append(sel, s.Selection[i+1:]...)
	s.Selection = sel
	return s
}
