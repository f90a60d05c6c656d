package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRendersAllFields(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.Encode(&Message{ID: "1", Event: "sql_generated", Data: []byte(`{"sql":"SELECT 1"}`), Retry: 3000})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "id: 1\n")
	assert.Contains(t, s, "event: sql_generated\n")
	assert.Contains(t, s, `data: {"sql":"SELECT 1"}`+"\n")
	assert.Contains(t, s, "retry: 3000\n")
	assert.True(t, len(s) >= 2 && s[len(s)-2:] == "\n\n")
}

func TestEncodeMultilineData(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.Encode(&Message{Event: "x", Data: []byte("line1\nline2")})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "data: line1\n")
	assert.Contains(t, s, "data: line2\n")
}

func TestEncodeRejectsEmptyMessage(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.Encode(&Message{})
	assert.ErrorIs(t, err, ErrMessageNoContent)
}
