package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field names a form field; values match the JSON keys of dto.Employee.
type Field string

const (
	FieldName        Field = "name"
	FieldDOB         Field = "dob"
	FieldContact     Field = "contact"
	FieldEmail       Field = "email"
	FieldAddress     Field = "address"
	FieldDepartment  Field = "department"
	FieldDesignation Field = "designation"
	FieldSalary      Field = "salary"
)

// Fields lists the form fields in display order.
var Fields = []Field{
	FieldName,
	FieldDOB,
	FieldContact,
	FieldEmail,
	FieldAddress,
	FieldDepartment,
	FieldDesignation,
	FieldSalary,
}

var labels = map[Field]string{
	FieldName:        "Name",
	FieldDOB:         "Date of Birth",
	FieldContact:     "Contact",
	FieldEmail:       "Email",
	FieldAddress:     "Address",
	FieldDepartment:  "Department",
	FieldDesignation: "Designation",
	FieldSalary:      "Salary",
}

// Label returns the human readable name of f.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

const dateLayout = "2006-01-02"

var (
	regexName   = regexp.MustCompile(`^[A-Za-z ]+$`)
	regexDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	regexDigits = regexp.MustCompile(`^\d+$`)

	emailValidate = validator.New()
)

func nameChain() Chain {
	return Chain{
		Required("Name is required"),
		MinLength(3, "Name must be at least 3 characters"),
		MaxLength(50, "Name must be at most 50 characters"),
		Pattern(regexName, "Name must only contain letters and spaces"),
	}
}

func dobChain(now func() time.Time) Chain {
	return Chain{
		Required("Date of Birth is required"),
		Pattern(regexDate, "Date of Birth must be in YYYY-MM-DD format"),
		Custom(func(v string) bool {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				return false
			}
			return d.Before(now())
		}, "Date of Birth must be a valid past date"),
	}
}

func contactChain() Chain {
	return Chain{
		Required("Contact is required"),
		ExactLength(10, "Contact must be exactly 10 digits"),
		Pattern(regexDigits, "Contact must only contain digits"),
	}
}

func emailChain() Chain {
	return Chain{
		Required("Email is required"),
		Custom(validEmail, "Email must be a valid email format"),
	}
}

func requiredChain(f Field) Chain {
	return Chain{Required(f.Label() + " is required")}
}

func salaryChain() Chain {
	return Chain{
		Required("Salary is required"),
		Custom(func(v string) bool {
			_, ok := parseSalary(v)
			return ok
		}, "Salary must be a number"),
		Custom(func(v string) bool {
			s, _ := parseSalary(v)
			return s > 0
		}, "Salary must be a positive number"),
	}
}

func validEmail(v string) bool {
	return emailValidate.Var(strings.TrimSpace(v), "email") == nil
}

func parseSalary(v string) (float64, bool) {
	s, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, false
	}
	return s, true
}
