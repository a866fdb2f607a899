package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Employee — запись справочника сотрудников.
// ID присваивает сервер при первом успешном создании, до этого поле пустое.
type Employee struct {
	ID          string  `json:"id,omitempty" example:"7"`
	Name        string  `json:"name" example:"Jane Doe"`               // 3-50 символов, только буквы и пробелы
	DOB         string  `json:"dob" example:"1994-06-12"`              // Дата рождения в формате YYYY-MM-DD
	Contact     string  `json:"contact" example:"9161234567"`          // Ровно 10 цифр
	Email       string  `json:"email" example:"jane@example.com"`      // Почта сотрудника
	Address     string  `json:"address" example:"12 Baker Street"`     // Адрес
	Department  string  `json:"department" example:"Quality"`          // Подразделение/отдел
	Designation string  `json:"designation" example:"QA Engineer"`     // Должность
	Salary      float64 `json:"salary" example:"85000"`                // Оклад, строго больше нуля
}

// WithID returns a copy of e carrying id.
func (e Employee) WithID(id string) Employee {
	e.ID = id
	return e
}

// UnmarshalJSON принимает id как строку или как число: сервер может отдавать
// числовые идентификаторы. Внутри id всегда строка.
func (e *Employee) UnmarshalJSON(b []byte) error {
	type plain Employee
	aux := struct {
		plain
		ID json.RawMessage `json:"id,omitempty"`
	}{plain: plain(*e)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}

	*e = Employee(aux.plain)
	if aux.ID != nil {
		e.ID = id
	}

	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("employee id: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("employee id must be a string or a number, got %s", raw)
	}
	return n.String(), nil
}
