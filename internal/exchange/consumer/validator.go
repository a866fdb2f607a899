package consumer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Artexxx/HR-Directory/internal/exchange/producer"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

// validateEnvelope returns the parsed message ID, or a DLQ reason when the event
// cannot be stored.
func validateEnvelope(env producer.Envelope, v *validation.Validator) (uuid.UUID, string) {
	if strings.TrimSpace(env.MessageID) == "" {
		return uuid.Nil, "missing required field message_id"
	}
	messageID, err := uuid.Parse(env.MessageID)
	if err != nil || messageID == uuid.Nil {
		return uuid.Nil, fmt.Sprintf("invalid value in field 'message_id'=%s", env.MessageID)
	}

	if strings.TrimSpace(env.EmployeeID) == "" {
		return uuid.Nil, "missing required field employee_id"
	}
	if env.Payload.ID != "" && env.Payload.ID != env.EmployeeID {
		return uuid.Nil, fmt.Sprintf("payload id %s does not match employee_id %s", env.Payload.ID, env.EmployeeID)
	}

	switch env.Kind {
	case producer.KindCreated, producer.KindUpdated:
		if v == nil {
			break
		}
		if _, err := v.ValidateEmployee(env.Payload); err != nil {
			return uuid.Nil, fmt.Sprintf("invalid payload: %v", err)
		}
	case producer.KindDeleted:
	default:
		return uuid.Nil, fmt.Sprintf("unknown event kind %q", env.Kind)
	}

	return messageID, ""
}
