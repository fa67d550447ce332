package bulkedit

import "time"

// Event is an input to the state machine
type Event interface {
	event()
}

// CellClicked is a click on a cell. Modifier is the selection modifier key.
type CellClicked struct {
	Cell     Cell
	Modifier bool
}

// CellLongPressed is a touch press held for Held
type CellLongPressed struct {
	Cell Cell
	Held time.Duration
}

// DragStarted is a pointer press that began dragging on a cell
type DragStarted struct {
	Cell Cell
}

// DragEntered is the pointer entering a cell while dragging
type DragEntered struct {
	Cell Cell
}

// DragEnded is the pointer release, inside or outside any cell
type DragEnded struct{}

// ColumnSelected selects a theatre across the given dates
type ColumnSelected struct {
	TheatreID string
	Dates     []string
}

// EditorOpened opens the bulk editor for the current selection
type EditorOpened struct{}

// FieldChanged sets one pending field
type FieldChanged struct {
	Field Field
	Value string
}

// DropdownToggled opens or closes a field dropdown in the editor
type DropdownToggled struct {
	Field Field
}

// Committed applies the pending edit
type Committed struct{}

// Cancelled discards the selection and any pending edit
type Cancelled struct{}

func (CellClicked) event()     {}
func (CellLongPressed) event() {}
func (DragStarted) event()     {}
func (DragEntered) event()     {}
func (DragEnded) event()       {}
func (ColumnSelected) event()  {}
func (EditorOpened) event()    {}
func (FieldChanged) event()    {}
func (DropdownToggled) event() {}
func (Committed) event()       {}
func (Cancelled) event()       {}
