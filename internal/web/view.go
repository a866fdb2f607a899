package web

import (
	"errors"
	"strconv"

	"github.com/Artexxx/HR-Directory/internal/directory"
	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

type fieldView struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type rowView struct {
	Index    int
	Employee dto.Employee
	Salary   string
}

type pageView struct {
	Flash       string
	Fields      []fieldView
	SubmitLabel string
	Editing     bool
	Query       string
	Rows        []rowView
}

var inputTypes = map[validation.Field]string{
	validation.FieldDOB:    "date",
	validation.FieldEmail:  "email",
	validation.FieldSalary: "number",
}

func buildPage(c *directory.Controller, flash string) pageView {
	draft, errs := c.Draft(), c.Errors()

	fields := make([]fieldView, 0, len(validation.Fields))
	for _, f := range validation.Fields {
		typ, ok := inputTypes[f]
		if !ok {
			typ = "text"
		}
		fields = append(fields, fieldView{
			Name:  string(f),
			Label: f.Label(),
			Type:  typ,
			Value: draft.Get(f),
			Error: errs[f],
		})
	}

	visible := c.Visible()
	rows := make([]rowView, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, rowView{
			Index:    r.Index,
			Employee: r.Employee,
			Salary:   strconv.FormatFloat(r.Employee.Salary, 'f', -1, 64),
		})
	}

	return pageView{
		Flash:       flash,
		Fields:      fields,
		SubmitLabel: c.SubmitLabel(),
		Editing:     c.Mode().IsEditing(),
		Query:       c.Query(),
		Rows:        rows,
	}
}

// flashFor turns an operation error into the line shown above the form. Field
// errors are rendered inline and produce no flash.
func flashFor(err error) string {
	var (
		fe     validation.FieldErrors
		remote *directory.RemoteCallError
	)

	switch {
	case err == nil, errors.As(err, &fe):
		return ""
	case errors.As(err, &remote):
		return "Could not " + string(remote.Op) + " employee: " + remote.Err.Error()
	case errors.Is(err, directory.ErrRecordGone):
		return "The employee being edited no longer exists."
	case errors.Is(err, directory.ErrIndexOutOfRange):
		return "That row no longer exists."
	case errors.Is(err, directory.ErrInvalidRemoteRecord):
		// the create may have been committed anyway
		return "The server returned an invalid employee record. It may have been saved: reload the list before submitting again."
	default:
		return err.Error()
	}
}
