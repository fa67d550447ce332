// Package bulkedit is the selection and pending-edit state machine behind
// multi-cell schedule edits. Reduce is pure: it never mutates the state or
// snapshot it is given, and a commit yields a fresh snapshot.
package bulkedit

import (
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// NoChange marks a pending field that must be left untouched on every target
const NoChange = "NO_CHANGE"

// LongPressThreshold is the hold time that turns a touch into a selection press
const LongPressThreshold = 500 * time.Millisecond

// Mode is the machine's state
type Mode int

const (
	Idle Mode = iota
	Selecting
	Editing
)

func (m Mode) String() string {
	switch m {
	case Selecting:
		return "selecting"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// Cell addresses one theatre on one date
type Cell struct {
	TheatreID string `json:"theatre_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Key returns the session key of the cell
func (c Cell) Key() string {
	return domain.SessionKey(c.TheatreID, c.Date)
}

// Snapshot is the schedule keyed by session key
type Snapshot map[string]domain.Session

// NewSnapshot indexes sessions by their key
func NewSnapshot(sessions []domain.Session) Snapshot {
	s := make(Snapshot, len(sessions))
	for _, session := range sessions {
		s[session.ID()] = session
	}
	return s
}

// Session returns the session at a cell, or a default day session when the
// cell has never been configured
func (s Snapshot) Session(c Cell) (domain.Session, bool) {
	if session, ok := s[c.Key()]; ok {
		return session, true
	}
	return domain.Session{TheatreID: c.TheatreID, Date: c.Date, SessionType: domain.SessionDay}, false
}

// Field names an editable session field
type Field string

const (
	FieldSessionType  Field = "session_type"
	FieldSpecialty    Field = "specialty"
	FieldSurgeon      Field = "surgeon_id"
	FieldAnaesthetist Field = "anaesthetist_id"
	FieldNotes        Field = "notes"
	FieldClosedReason Field = "closed_reason"
)

// PendingEdit is the edit being composed. Every field except ClosedReason uses
// NoChange to mean "leave as is". ClosedReason is applied whenever non-empty.
type PendingEdit struct {
	SessionType    string `json:"session_type" validate:"required,oneof=NO_CHANGE day long-day night emergency closed"`
	Specialty      string `json:"specialty"`
	SurgeonID      string `json:"surgeon_id"`
	AnaesthetistID string `json:"anaesthetist_id"`
	Notes          string `json:"notes"`
	ClosedReason   string `json:"closed_reason"`
}

// NoChangeEdit returns an edit that changes nothing
func NoChangeEdit() PendingEdit {
	return PendingEdit{
		SessionType:    NoChange,
		Specialty:      NoChange,
		SurgeonID:      NoChange,
		AnaesthetistID: NoChange,
		Notes:          NoChange,
	}
}

// EditFor returns an edit holding the session's current values
func EditFor(s domain.Session) PendingEdit {
	return PendingEdit{
		SessionType:    string(s.SessionType),
		Specialty:      s.Specialty,
		SurgeonID:      s.SurgeonID,
		AnaesthetistID: s.AnaesthetistID,
		Notes:          s.Notes,
		ClosedReason:   s.ClosedReason,
	}
}

// With returns the edit with one field set
func (e PendingEdit) With(f Field, value string) PendingEdit {
	switch f {
	case FieldSessionType:
		e.SessionType = value
	case FieldSpecialty:
		e.Specialty = value
	case FieldSurgeon:
		e.SurgeonID = value
	case FieldAnaesthetist:
		e.AnaesthetistID = value
	case FieldNotes:
		e.Notes = value
	case FieldClosedReason:
		e.ClosedReason = value
	}
	return e
}

// ChangedFields lists the fields the edit will write
func (e PendingEdit) ChangedFields() []string {
	var fields []string
	for _, f := range []struct {
		name  Field
		value string
	}{
		{FieldSessionType, e.SessionType},
		{FieldSpecialty, e.Specialty},
		{FieldSurgeon, e.SurgeonID},
		{FieldAnaesthetist, e.AnaesthetistID},
		{FieldNotes, e.Notes},
	} {
		if f.value != NoChange {
			fields = append(fields, string(f.name))
		}
	}
	if e.ClosedReason != "" {
		fields = append(fields, string(FieldClosedReason))
	}
	return fields
}

// State is the full machine state, passed and returned by value
type State struct {
	Mode      Mode
	Selection []Cell
	Pending   PendingEdit

	// Single marks an edit opened directly on one cell, with concrete values
	Single   bool
	Dragging bool

	// Dropdown is the open field dropdown, empty when none
	Dropdown Field
}

// Selected reports whether a cell is in the selection
func (s State) Selected(c Cell) bool {
	return indexOf(s.Selection, c) >= 0
}

func indexOf(cells []Cell, c Cell) int {
	for i, sel := range cells {
		if sel == c {
			return i
		}
	}
	return -1
}
