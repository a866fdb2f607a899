package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee_UnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `{"id":"7","name":"Jane Doe"}`, want: "7"},
		{name: "number", body: `{"id":7,"name":"Jane Doe"}`, want: "7"},
		{name: "large number", body: `{"id":90071992547409931,"name":"Jane Doe"}`, want: "90071992547409931"},
		{name: "null", body: `{"id":null,"name":"Jane Doe"}`, want: ""},
		{name: "absent", body: `{"name":"Jane Doe"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Employee
			require.NoError(t, json.Unmarshal([]byte(tt.body), &e))
			assert.Equal(t, tt.want, e.ID)
			assert.Equal(t, "Jane Doe", e.Name)
		})
	}
}

func TestEmployee_UnmarshalKeepsOtherFields(t *testing.T) {
	var e Employee
	body := `{"id":3,"name":"Jane Doe","dob":"1994-06-12","contact":"9161234567","email":"jane@example.com",` +
		`"address":"12 Baker Street","department":"Quality","designation":"QA Engineer","salary":85000}`
	require.NoError(t, json.Unmarshal([]byte(body), &e))

	assert.Equal(t, Employee{
		ID:          "3",
		Name:        "Jane Doe",
		DOB:         "1994-06-12",
		Contact:     "9161234567",
		Email:       "jane@example.com",
		Address:     "12 Baker Street",
		Department:  "Quality",
		Designation: "QA Engineer",
		Salary:      85000,
	}, e)
}

func TestEmployee_UnmarshalRejectsOtherIDTypes(t *testing.T) {
	for _, body := range []string{`{"id":true}`, `{"id":{"v":1}}`, `{"id":[1]}`} {
		var e Employee
		assert.Error(t, json.Unmarshal([]byte(body), &e), body)
	}
}

func TestEmployee_MarshalKeepsStringID(t *testing.T) {
	b, err := json.Marshal(Employee{ID: "7", Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"7"`)
}
