package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

var (
	ErrRecordGone          = errors.New("record is no longer in the store")
	ErrInvalidRemoteRecord = errors.New("remote returned an invalid record")
	ErrNotValidated        = errors.New("record was not validated")
)

// Collaborator is the REST backend as seen by the client.
type Collaborator interface {
	List(ctx context.Context) ([]dto.Employee, error)
	Create(ctx context.Context, e dto.Employee) (dto.Employee, error)
	Update(ctx context.Context, id string, e dto.Employee) (dto.Employee, error)
	Delete(ctx context.Context, id string) error
}

type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// RemoteCallError reports a failed create/update/delete/fetch. The store is left
// as it was before the call.
type RemoteCallError struct {
	Op  Op
	ID  string
	Err error
}

func (e *RemoteCallError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Call is a remote write prepared against the current store. It is a plain value
// and can be executed away from the goroutine that owns the store.
type Call struct {
	Op     Op
	Index  int
	ID     string
	Record dto.Employee
}

// Outcome is the result of executing a Call.
type Outcome struct {
	Call   Call
	Record dto.Employee
	Err    error
}

// Reconciler applies remote write outcomes to the store. The store is mutated only
// in Apply and Seed.
type Reconciler struct {
	store     *Store
	remote    Collaborator
	validator *validation.Validator
	log       zerolog.Logger
}

func NewReconciler(store *Store, remote Collaborator, v *validation.Validator, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:     store,
		remote:    remote,
		validator: v,
		log:       log.With().Str("component", "Reconciler").Logger(),
	}
}

// Load seeds the store from the collaborator. Records that fail validation or
// repeat an ID are skipped. On failure the store is unchanged.
func (r *Reconciler) Load(ctx context.Context) error {
	rows, err := r.Fetch(ctx)
	if err != nil {
		return err
	}
	r.Seed(rows)
	return nil
}

// Fetch lists the collaborator's records without touching the store.
func (r *Reconciler) Fetch(ctx context.Context) ([]dto.Employee, error) {
	rows, err := r.remote.List(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("fetch employees failed")
		return nil, &RemoteCallError{Op: OpFetch, Err: err}
	}
	return rows, nil
}

// Seed replaces the store with the valid, first-seen-ID records of rows.
func (r *Reconciler) Seed(rows []dto.Employee) {
	seen := make(map[string]struct{}, len(rows))
	out := make([]dto.Employee, 0, len(rows))
	for _, e := range rows {
		if err := r.checkRemote(e); err != nil {
			r.log.Warn().Err(err).Str("employee_id", e.ID).Msg("skip employee from fetch")
			continue
		}
		if _, dup := seen[e.ID]; dup {
			r.log.Warn().Str("employee_id", e.ID).Msg("skip duplicate employee id from fetch")
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}

	r.store.Reset(out)
	r.log.Info().Int("count", len(out)).Int("skipped", len(rows)-len(out)).Msg("store loaded")
}

func (r *Reconciler) PrepareCreate(rec validation.ValidRecord) (Call, error) {
	if rec.IsZero() {
		return Call{}, ErrNotValidated
	}
	return Call{Op: OpCreate, Index: -1, Record: rec.Employee()}, nil
}

// PrepareUpdate merges rec over the stored record at index. Non-empty values of rec
// override, empty ones keep the stored value unless the field is optional, in which
// case the empty value clears it. The ID is always kept.
func (r *Reconciler) PrepareUpdate(index int, rec validation.ValidRecord) (Call, error) {
	if rec.IsZero() {
		return Call{}, ErrNotValidated
	}

	cur, ok := r.store.At(index)
	if !ok {
		r.log.Warn().Int("index", index).Msg("update addresses a missing row")
		return Call{}, ErrIndexOutOfRange
	}

	return Call{Op: OpUpdate, Index: index, ID: cur.ID, Record: merge(cur, rec.Employee(), r.optional)}, nil
}

func (r *Reconciler) PrepareDelete(index int) (Call, error) {
	cur, ok := r.store.At(index)
	if !ok {
		r.log.Warn().Int("index", index).Msg("delete addresses a missing row")
		return Call{}, ErrIndexOutOfRange
	}

	return Call{Op: OpDelete, Index: index, ID: cur.ID, Record: cur}, nil
}

// Execute performs the remote call. It does not touch the store.
func (r *Reconciler) Execute(ctx context.Context, c Call) Outcome {
	out := Outcome{Call: c}

	switch c.Op {
	case OpCreate:
		out.Record, out.Err = r.remote.Create(ctx, c.Record)
	case OpUpdate:
		out.Record, out.Err = r.remote.Update(ctx, c.ID, c.Record)
		if out.Err == nil && out.Record.ID == "" {
			out.Record = c.Record
		}
	case OpDelete:
		out.Err = r.remote.Delete(ctx, c.ID)
		out.Record = c.Record
	default:
		out.Err = fmt.Errorf("unknown op %q", c.Op)
	}

	return out
}

// Apply reconciles the store with an outcome. A failed call, a record that left
// the store meanwhile or an invalid server response all leave the store unchanged.
func (r *Reconciler) Apply(o Outcome) error {
	c := o.Call
	l := r.log.With().Str("op", string(c.Op)).Str("employee_id", c.ID).Logger()

	if o.Err != nil {
		l.Error().Err(o.Err).Msg("remote call failed")
		return &RemoteCallError{Op: c.Op, ID: c.ID, Err: o.Err}
	}

	switch c.Op {
	case OpCreate:
		if err := r.checkRemote(o.Record); err != nil {
			l.Error().Err(err).Str("returned_id", o.Record.ID).Msg("created record rejected, server may have stored it")
			return err
		}
		if r.store.IndexOf(o.Record.ID) >= 0 {
			l.Error().Str("returned_id", o.Record.ID).Msg("created record reuses a stored id, server may have stored it")
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidRemoteRecord, o.Record.ID)
		}
		r.store.Append(o.Record)

	case OpUpdate:
		idx := r.locate(c, l)
		if idx < 0 {
			return ErrRecordGone
		}
		rec := o.Record
		rec.ID = c.ID
		if err := r.checkRemote(rec); err != nil {
			l.Error().Err(err).Msg("updated record rejected")
			return err
		}
		if err := r.store.ReplaceAt(idx, rec); err != nil {
			return err
		}

	case OpDelete:
		idx := r.locate(c, l)
		if idx < 0 {
			return ErrRecordGone
		}
		if err := r.store.RemoveAt(idx); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}

	l.Debug().Int("store_len", r.store.Len()).Msg("store reconciled")

	return nil
}

func (r *Reconciler) Create(ctx context.Context, rec validation.ValidRecord) error {
	c, err := r.PrepareCreate(rec)
	if err != nil {
		return err
	}
	return r.Apply(r.Execute(ctx, c))
}

func (r *Reconciler) Update(ctx context.Context, index int, rec validation.ValidRecord) error {
	c, err := r.PrepareUpdate(index, rec)
	if err != nil {
		return err
	}
	return r.Apply(r.Execute(ctx, c))
}

func (r *Reconciler) Delete(ctx context.Context, index int) error {
	c, err := r.PrepareDelete(index)
	if err != nil {
		return err
	}
	return r.Apply(r.Execute(ctx, c))
}

// locate finds the target of an update or delete by ID; the prepared index is only
// a hint since rows before it may have been removed while the call was in flight.
func (r *Reconciler) locate(c Call, l zerolog.Logger) int {
	idx := r.store.IndexOf(c.ID)
	if idx < 0 {
		l.Warn().Int("index", c.Index).Msg("target record left the store, outcome ignored")
		return -1
	}
	if idx != c.Index {
		l.Debug().Int("prepared_index", c.Index).Int("index", idx).Msg("target record moved")
	}
	return idx
}

func (r *Reconciler) checkRemote(e dto.Employee) error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRemoteRecord)
	}
	if r.validator == nil {
		return nil
	}
	if _, err := r.validator.ValidateEmployee(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRemoteRecord, err)
	}
	return nil
}

func (r *Reconciler) optional(f validation.Field) bool {
	return r.validator != nil && r.validator.Optional(f)
}

func merge(cur, next dto.Employee, optional func(validation.Field) bool) dto.Employee {
	out := cur
	pick := func(f validation.Field, dst *string, v string) {
		if v != "" || optional(f) {
			*dst = v
		}
	}

	pick(validation.FieldName, &out.Name, next.Name)
	pick(validation.FieldDOB, &out.DOB, next.DOB)
	pick(validation.FieldContact, &out.Contact, next.Contact)
	pick(validation.FieldEmail, &out.Email, next.Email)
	pick(validation.FieldAddress, &out.Address, next.Address)
	pick(validation.FieldDepartment, &out.Department, next.Department)
	pick(validation.FieldDesignation, &out.Designation, next.Designation)
	if next.Salary != 0 {
		out.Salary = next.Salary
	}

	return out
}
