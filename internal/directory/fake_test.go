package directory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

var errBackendDown = errors.New("backend down")

type fakeRemote struct {
	list    []dto.Employee
	listErr error

	createErr error
	updateErr error
	deleteErr error

	// createID is assigned to created records; when empty a counter is used.
	createID string
	// updateEcho controls whether Update returns the body or an empty record.
	updateEcho bool

	nextID int
	calls  []string
}

func (f *fakeRemote) List(context.Context) ([]dto.Employee, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeRemote) Create(_ context.Context, e dto.Employee) (dto.Employee, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return dto.Employee{}, f.createErr
	}
	id := f.createID
	if id == "" {
		f.nextID++
		id = "n" + strconv.Itoa(f.nextID)
	}
	return e.WithID(id), nil
}

func (f *fakeRemote) Update(_ context.Context, id string, e dto.Employee) (dto.Employee, error) {
	f.calls = append(f.calls, "update "+id)
	if f.updateErr != nil {
		return dto.Employee{}, f.updateErr
	}
	if !f.updateEcho {
		return dto.Employee{}, nil
	}
	return e.WithID(id), nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	return f.deleteErr
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testValidator() *validation.Validator {
	return validation.New(validation.WithClock(func() time.Time { return testNow }))
}

func employee(id, name string) dto.Employee {
	return dto.Employee{
		ID:          id,
		Name:        name,
		DOB:         "1990-01-15",
		Contact:     "9161234567",
		Email:       "staff@example.com",
		Address:     "1 Main Street",
		Department:  "Quality",
		Designation: "Engineer",
		Salary:      50000,
	}
}

func draftOf(e dto.Employee) validation.Draft {
	return validation.DraftFromEmployee(e)
}

func newTestController(remote *fakeRemote, seed ...dto.Employee) *Controller {
	c := NewController(remote, testValidator(), zerolog.Nop())
	c.store.Reset(seed)
	return c
}
