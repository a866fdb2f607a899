package directory

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

// Controller drives the employee form: it owns the store, the edit mode, the
// current draft and the search query. It is not safe for concurrent use; a UI
// calls it from its single event loop.
type Controller struct {
	store     *Store
	mode      EditMode
	rec       *Reconciler
	validator *validation.Validator
	log       zerolog.Logger

	draft validation.Draft
	errs  validation.FieldErrors
	query string
}

func NewController(remote Collaborator, v *validation.Validator, log zerolog.Logger) *Controller {
	store := NewStore()

	return &Controller{
		store:     store,
		mode:      Idle(),
		rec:       NewReconciler(store, remote, v, log),
		validator: v,
		log:       log.With().Str("component", "FormController").Logger(),
	}
}

// Load seeds the store from the server and returns to Idle.
func (c *Controller) Load(ctx context.Context) error {
	rows, err := c.Fetch(ctx)
	if err != nil {
		return err
	}
	c.Seed(rows)
	return nil
}

// Fetch is the remote half of Load and may run off the loop.
func (c *Controller) Fetch(ctx context.Context) ([]dto.Employee, error) {
	return c.rec.Fetch(ctx)
}

// Seed replaces the store with rows and resets the form.
func (c *Controller) Seed(rows []dto.Employee) {
	c.rec.Seed(rows)
	c.resetForm()
}

func (c *Controller) Store() *Store {
	return c.store
}

func (c *Controller) Mode() EditMode {
	return c.mode
}

func (c *Controller) SubmitLabel() string {
	return c.mode.SubmitLabel()
}

// InitialValues returns the values the form starts from: the edited record while
// Editing, an empty draft while Idle.
func (c *Controller) InitialValues() validation.Draft {
	if !c.mode.IsEditing() {
		return validation.Draft{}
	}
	e, ok := c.store.At(c.mode.Index())
	if !ok {
		return validation.Draft{}
	}
	return validation.DraftFromEmployee(e)
}

func (c *Controller) Draft() validation.Draft {
	return c.draft
}

func (c *Controller) SetDraft(d validation.Draft) {
	c.draft = d
}

func (c *Controller) SetField(f validation.Field, v string) {
	c.draft.Set(f, v)
}

// Errors returns the field messages of the last rejected submission.
func (c *Controller) Errors() validation.FieldErrors {
	return c.errs
}

func (c *Controller) Query() string {
	return c.query
}

func (c *Controller) SetQuery(q string) {
	c.query = q
}

// Visible returns the rows matching the current query.
func (c *Controller) Visible() []Row {
	return Rows(Filter(c.store, c.query))
}

// BeginEdit switches to Editing the record at index and loads it into the form.
func (c *Controller) BeginEdit(index int) error {
	e, ok := c.store.At(index)
	if !ok {
		c.log.Warn().Int("index", index).Msg("edit addresses a missing row")
		return ErrIndexOutOfRange
	}

	c.mode = Editing(index, e.ID)
	c.draft = c.InitialValues()
	c.errs = nil
	c.log.Debug().Stringer("mode", c.mode).Str("employee_id", e.ID).Msg("edit started")

	return nil
}

// CancelEdit returns to Idle and clears the form.
func (c *Controller) CancelEdit() {
	c.resetForm()
}

// PrepareSubmit validates the draft and prepares the remote write. A validation
// failure is returned as validation.FieldErrors and nothing is sent.
func (c *Controller) PrepareSubmit() (Call, error) {
	rec, err := c.validator.Validate(c.draft)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			c.errs = fe
		}
		return Call{}, err
	}
	c.errs = nil

	if !c.mode.IsEditing() {
		return c.rec.PrepareCreate(rec)
	}

	idx := c.store.IndexOf(c.mode.ID())
	if idx < 0 {
		c.log.Warn().Str("employee_id", c.mode.ID()).Msg("edited record left the store")
		c.resetForm()
		return Call{}, ErrRecordGone
	}

	return c.rec.PrepareUpdate(idx, rec)
}

// PrepareDelete prepares removal of the row at index.
func (c *Controller) PrepareDelete(index int) (Call, error) {
	return c.rec.PrepareDelete(index)
}

// Execute runs the remote part of a prepared call; see Reconciler.Execute.
func (c *Controller) Execute(ctx context.Context, call Call) Outcome {
	return c.rec.Execute(ctx, call)
}

// Complete applies an outcome and moves the edit mode. On failure the store, the
// edit mode and the draft stay as they were.
func (c *Controller) Complete(o Outcome) error {
	err := c.rec.Apply(o)

	switch {
	case err == nil:
	case errors.Is(err, ErrRecordGone) && o.Call.Op == OpUpdate:
		c.resetForm()
		return err
	default:
		return err
	}

	switch o.Call.Op {
	case OpCreate, OpUpdate:
		c.resetForm()
	case OpDelete:
		c.followEdited()
	}

	return nil
}

// Submit validates and writes the draft synchronously.
func (c *Controller) Submit(ctx context.Context) error {
	call, err := c.PrepareSubmit()
	if err != nil {
		return err
	}
	return c.Complete(c.Execute(ctx, call))
}

// Delete removes the row at index synchronously.
func (c *Controller) Delete(ctx context.Context, index int) error {
	call, err := c.PrepareDelete(index)
	if err != nil {
		return err
	}
	return c.Complete(c.Execute(ctx, call))
}

// followEdited keeps Editing pointed at its record after a deletion: the position
// shifts when an earlier row went away, and the form resets when the edited
// record itself was deleted.
func (c *Controller) followEdited() {
	if !c.mode.IsEditing() {
		return
	}

	idx := c.store.IndexOf(c.mode.ID())
	if idx < 0 {
		c.log.Info().Str("employee_id", c.mode.ID()).Msg("edited record deleted, back to idle")
		c.resetForm()
		return
	}
	c.mode = Editing(idx, c.mode.ID())
}

func (c *Controller) resetForm() {
	c.mode = Idle()
	c.draft = validation.Draft{}
	c.errs = nil
}
