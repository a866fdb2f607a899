package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawOrString(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(rawOrString(`{"a":1}`)))
	assert.Equal(t, `"not json"`, string(rawOrString("not json")))
	assert.Equal(t, `""`, string(rawOrString("")))
}
