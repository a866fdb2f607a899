package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

var ErrValidation = errors.New("validation failed")

// Draft holds raw, not yet validated form values.
type Draft struct {
	Name        string
	DOB         string
	Contact     string
	Email       string
	Address     string
	Department  string
	Designation string
	Salary      string
}

// Get returns the raw value of f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldDOB:
		return d.DOB
	case FieldContact:
		return d.Contact
	case FieldEmail:
		return d.Email
	case FieldAddress:
		return d.Address
	case FieldDepartment:
		return d.Department
	case FieldDesignation:
		return d.Designation
	case FieldSalary:
		return d.Salary
	}
	return ""
}

// Set assigns the raw value of f. Unknown fields are ignored.
func (d *Draft) Set(f Field, v string) {
	switch f {
	case FieldName:
		d.Name = v
	case FieldDOB:
		d.DOB = v
	case FieldContact:
		d.Contact = v
	case FieldEmail:
		d.Email = v
	case FieldAddress:
		d.Address = v
	case FieldDepartment:
		d.Department = v
	case FieldDesignation:
		d.Designation = v
	case FieldSalary:
		d.Salary = v
	}
}

// IsEmpty reports whether no field has been filled in.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// DraftFromEmployee returns the form values of a stored record.
func DraftFromEmployee(e dto.Employee) Draft {
	return Draft{
		Name:        e.Name,
		DOB:         e.DOB,
		Contact:     e.Contact,
		Email:       e.Email,
		Address:     e.Address,
		Department:  e.Department,
		Designation: e.Designation,
		Salary:      strconv.FormatFloat(e.Salary, 'f', -1, 64),
	}
}

// ValidRecord is a record that passed the record validator. The zero value is not
// valid; only Validator produces usable values.
type ValidRecord struct {
	rec dto.Employee
	ok  bool
}

// Employee returns the validated record. It never carries an ID.
func (v ValidRecord) Employee() dto.Employee {
	return v.rec
}

// IsZero reports whether v was produced by a validator.
func (v ValidRecord) IsZero() bool {
	return !v.ok
}

// FieldErrors maps each rejected field to its message.
type FieldErrors map[Field]string

func (fe FieldErrors) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrValidation.Error())

	sep := ": "
	for _, f := range Fields {
		msg, ok := fe[f]
		if !ok {
			continue
		}
		sb.WriteString(sep)
		sb.WriteString(string(f))
		sb.WriteString(" (")
		sb.WriteString(msg)
		sb.WriteString(")")
		sep = ", "
	}

	return sb.String()
}

func (fe FieldErrors) Unwrap() error {
	return ErrValidation
}

// Messages returns a plain string map, suitable for JSON.
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for f, m := range fe {
		out[string(f)] = m
	}
	return out
}

type Option func(*Validator)

// WithClock sets the source of "now" used by the date of birth rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithOptionalDesignation lets designation be left empty.
func WithOptionalDesignation() Option {
	return func(v *Validator) {
		v.optionalDesignation = true
	}
}

// Validator composes the field chains into a whole-record decision.
type Validator struct {
	now                 func() time.Time
	optionalDesignation bool
	chains              map[Field]Chain
}

func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, o := range opts {
		o(v)
	}

	v.chains = map[Field]Chain{
		FieldName:        nameChain(),
		FieldDOB:         dobChain(func() time.Time { return v.now() }),
		FieldContact:     contactChain(),
		FieldEmail:       emailChain(),
		FieldAddress:     requiredChain(FieldAddress),
		FieldDepartment:  requiredChain(FieldDepartment),
		FieldDesignation: requiredChain(FieldDesignation),
		FieldSalary:      salaryChain(),
	}
	if v.optionalDesignation {
		v.chains[FieldDesignation] = nil
	}

	return v
}

// Optional reports whether f may be left empty.
func (v *Validator) Optional(f Field) bool {
	return len(v.chains[f]) == 0
}

// CheckField runs the chain of a single field.
func (v *Validator) CheckField(f Field, raw string) string {
	return v.chains[f].Check(raw)
}

// Validate checks every field independently. On success the returned error is nil;
// otherwise it is a FieldErrors holding one message per rejected field.
func (v *Validator) Validate(d Draft) (ValidRecord, error) {
	errs := FieldErrors{}
	for _, f := range Fields {
		if msg := v.CheckField(f, d.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	if len(errs) > 0 {
		return ValidRecord{}, errs
	}

	salary, _ := parseSalary(d.Salary)

	return ValidRecord{
		ok: true,
		rec: dto.Employee{
			Name:        d.Name,
			DOB:         d.DOB,
			Contact:     d.Contact,
			Email:       strings.TrimSpace(d.Email),
			Address:     d.Address,
			Department:  d.Department,
			Designation: d.Designation,
			Salary:      salary,
		},
	}, nil
}

// ValidateEmployee checks an already decoded record, e.g. a request body or a
// merged update. The ID is carried through unchanged.
func (v *Validator) ValidateEmployee(e dto.Employee) (dto.Employee, error) {
	rec, err := v.Validate(DraftFromEmployee(e))
	if err != nil {
		return dto.Employee{}, err
	}

	out := rec.Employee()
	out.ID = e.ID

	return out, nil
}
