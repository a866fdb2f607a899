package producer

import (
	"time"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

type Kind string

const (
	KindCreated Kind = "employee.created"
	KindUpdated Kind = "employee.updated"
	KindDeleted Kind = "employee.deleted"
)

// Envelope — событие об изменении справочника
type Envelope struct {
	Kind       Kind         `json:"kind"`
	MessageID  string       `json:"message_id"`
	EmployeeID string       `json:"employee_id"`
	Payload    dto.Employee `json:"payload"`
	Timestamp  time.Time    `json:"timestamp"`
	Source     string       `json:"source"` // сервис-источник
}
