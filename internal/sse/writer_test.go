package sse

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSendWritesSSEFormattedBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWriter(&WriterConfig{Context: ctx, ResponseWriter: rec})
	require.NoError(t, err)

	require.NoError(t, w.Send(&Message{Event: "request_received", Data: []byte(`{}`)}))
	require.NoError(t, w.Close())

	body := rec.Body.String()
	assert.Contains(t, body, "event: request_received\n")
	assert.Equal(t, "text/event-stream; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestWithSSEStopsWhenChannelCloses(t *testing.T) {
	rec := httptest.NewRecorder()
	messages := make(chan *Message, 2)
	messages <- &Message{Event: "request_received", Data: []byte(`{}`)}
	messages <- &Message{Event: "final", Data: []byte(`{}`)}
	close(messages)

	err := WithSSE(context.Background(), rec, messages)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, "event: request_received\n")
	assert.Contains(t, body, "event: final\n")
}

func TestWithSSEStopsOnContextCancel(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	messages := make(chan *Message)
	err := WithSSE(ctx, rec, messages)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
