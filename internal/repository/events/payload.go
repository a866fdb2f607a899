package events

import (
	"encoding/json"
)

// rawOrString keeps a DLQ payload as JSON when it is valid JSON, and as a JSON
// string otherwise; DLQ rows hold whatever bytes arrived on the topic.
func rawOrString(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}

	quoted, _ := json.Marshal(s)
	return quoted
}
