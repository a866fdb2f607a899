package directory

import "fmt"

const (
	LabelSubmit = "Submit"
	LabelUpdate = "Update"
)

// EditMode is either Idle (the form creates a new record) or Editing a stored
// record. The record is tracked by position and by ID so the position can follow
// deletions of earlier rows.
type EditMode struct {
	editing bool
	index   int
	id      string
}

func Idle() EditMode {
	return EditMode{}
}

func Editing(index int, id string) EditMode {
	return EditMode{editing: true, index: index, id: id}
}

func (m EditMode) IsEditing() bool {
	return m.editing
}

// Index returns the store position being edited, or -1 when idle.
func (m EditMode) Index() int {
	if !m.editing {
		return -1
	}
	return m.index
}

func (m EditMode) ID() string {
	return m.id
}

func (m EditMode) SubmitLabel() string {
	if m.editing {
		return LabelUpdate
	}
	return LabelSubmit
}

func (m EditMode) String() string {
	if !m.editing {
		return "Idle"
	}
	return fmt.Sprintf("Editing(%d)", m.index)
}
