// Package tui is the terminal front end of the employee directory.
package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/directory"
	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

// outcomeMsg carries a finished remote call back into the Update loop.
type outcomeMsg struct {
	outcome directory.Outcome
}

// The server may have committed a create it answered badly, so resubmitting
// without a reload can duplicate the record.
const invalidRecordStatus = "The server returned an invalid employee record. It may have been saved: press ctrl+r to reload before submitting again."

// loadedMsg carries a finished reload back into the Update loop.
type loadedMsg struct {
	rows []dto.Employee
	err  error
}

// Model owns the controller; every controller call happens inside Update.
type Model struct {
	ctrl *directory.Controller
	ctx  context.Context
	log  zerolog.Logger

	inputs []textinput.Model
	// focus indexes inputs; len(inputs) is the table.
	focus int

	table   table.Model
	visible []directory.Row

	search    textinput.Model
	searching bool

	busy   bool
	status string
	styles Styles
}

func New(ctx context.Context, ctrl *directory.Controller, log zerolog.Logger) Model {
	inputs := make([]textinput.Model, len(validation.Fields))
	for i, f := range validation.Fields {
		in := textinput.New()
		in.Placeholder = f.Label()
		in.CharLimit = 64
		in.Width = 40
		inputs[i] = in
	}
	inputs[0].Focus()

	search := textinput.New()
	search.Placeholder = "Search by name..."
	search.Prompt = "/ "
	search.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 18},
			{Title: "Date of Birth", Width: 13},
			{Title: "Contact", Width: 11},
			{Title: "Email", Width: 22},
			{Title: "Address", Width: 16},
			{Title: "Department", Width: 12},
			{Title: "Designation", Width: 12},
			{Title: "Salary", Width: 10},
		}),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	m := Model{
		ctrl:   ctrl,
		ctx:    ctx,
		log:    log.With().Str("component", "TUI").Logger(),
		inputs: inputs,
		table:  t,
		search: search,
		styles: DefaultStyles(),
	}
	m.refreshRows()
	m.syncInputs()

	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		m.busy = false
		m.report(m.ctrl.Complete(msg.outcome))
		m.syncInputs()
		m.refreshRows()
		return m, nil

	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.report(msg.err)
			return m, nil
		}
		m.ctrl.Seed(msg.rows)
		m.status = ""
		m.syncInputs()
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.endSearch()
		return m, nil
	case "enter", "tab", "shift+tab":
		m.endSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	m.refreshRows()

	return m, cmd
}

func (m *Model) endSearch() {
	m.searching = false
	m.search.Blur()
	m.ctrl.SetQuery(m.search.Value())
	m.refreshRows()
	m.setFocus(m.focus)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % (len(m.inputs) + 1))
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + len(m.inputs)) % (len(m.inputs) + 1))
		return m, nil
	case "enter":
		return m.submit()
	case "ctrl+e":
		return m.beginEdit()
	case "ctrl+d":
		return m.remove()
	case "ctrl+r":
		return m.reload()
	case "esc":
		if m.ctrl.Mode().IsEditing() {
			m.ctrl.CancelEdit()
			m.syncInputs()
			m.status = ""
		}
		return m, nil
	case "/":
		if m.onTable() {
			m.searching = true
			m.table.Blur()
			cmd := m.search.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.onTable() {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetDraft(m.draft())

	call, err := m.ctrl.PrepareSubmit()
	if err != nil {
		m.report(err)
		m.syncInputs()
		return m, nil
	}

	m.status = ""
	return m.run(call)
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.report(m.ctrl.BeginEdit(index))
	m.syncInputs()
	m.setFocus(0)

	return m, nil
}

func (m Model) remove() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}

	call, err := m.ctrl.PrepareDelete(index)
	if err != nil {
		m.report(err)
		return m, nil
	}

	return m.run(call)
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.busy = true
	ctrl, ctx := m.ctrl, m.ctx

	return m, func() tea.Msg {
		rows, err := ctrl.Fetch(ctx)
		return loadedMsg{rows: rows, err: err}
	}
}

// run executes the remote half of call off the loop.
func (m Model) run(call directory.Call) (tea.Model, tea.Cmd) {
	m.busy = true
	ctrl, ctx := m.ctrl, m.ctx

	return m, func() tea.Msg {
		return outcomeMsg{outcome: ctrl.Execute(ctx, call)}
	}
}

// selected returns the store index of the highlighted table row.
func (m Model) selected() (int, bool) {
	cur := m.table.Cursor()
	if cur < 0 || cur >= len(m.visible) {
		return 0, false
	}
	return m.visible[cur].Index, true
}

func (m Model) onTable() bool {
	return m.focus == len(m.inputs)
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	if m.onTable() {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m Model) draft() validation.Draft {
	var d validation.Draft
	for i, f := range validation.Fields {
		d.Set(f, m.inputs[i].Value())
	}
	return d
}

func (m *Model) syncInputs() {
	d := m.ctrl.Draft()
	for i, f := range validation.Fields {
		m.inputs[i].SetValue(d.Get(f))
	}
}

func (m *Model) refreshRows() {
	m.visible = m.ctrl.Visible()

	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		e := r.Employee
		rows = append(rows, table.Row{
			e.Name, e.DOB, e.Contact, e.Email, e.Address, e.Department, e.Designation,
			strconv.FormatFloat(e.Salary, 'f', -1, 64),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) report(err error) {
	var (
		fe     validation.FieldErrors
		remote *directory.RemoteCallError
	)

	switch {
	case err == nil:
		m.status = ""
		return
	case errors.As(err, &fe):
		m.status = ""
		return
	case errors.As(err, &remote):
		m.status = "Could not " + string(remote.Op) + " employee: " + remote.Err.Error()
	case errors.Is(err, directory.ErrRecordGone):
		m.status = "The employee being edited no longer exists."
	case errors.Is(err, directory.ErrIndexOutOfRange):
		m.status = "That row no longer exists."
	case errors.Is(err, directory.ErrInvalidRemoteRecord):
		m.status = invalidRecordStatus
	default:
		m.status = err.Error()
	}

	m.log.Warn().Err(err).Msg("operation failed")
}

// WithError shows err in the status line, e.g. a failed initial load.
func (m Model) WithError(err error) Model {
	m.report(err)
	return m
}

// Refresh redraws the table and form from the controller.
func (m Model) Refresh() Model {
	m.refreshRows()
	m.syncInputs()
	return m
}
