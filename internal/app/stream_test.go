package app

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteStreamHappyPathEmitsFinal(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()

	err := a.ExecuteStream(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	}, rec)
	require.NoError(t, err)

	body := rec.Body.String()
	for _, stage := range []string{
		"event: request_received",
		"event: schema_confirmed",
		"event: sql_generated",
		"event: query_executing",
		"event: query_completed",
		"event: result_validating",
		"event: result_ready",
		"event: final",
	} {
		assert.Contains(t, body, stage)
	}
	assert.False(t, strings.Contains(body, "event: error"))
}

func TestExecuteStreamStopsAtErrorOnLowConfidence(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()

	err := a.ExecuteStream(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "今天天氣如何"},
	}, rec)
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "event: request_received")
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "event: schema_confirmed")
	assert.NotContains(t, body, "event: final")
}

func TestExecuteStreamHidesExceptionAtDefaultLogLevel(t *testing.T) {
	a := newTestAppWithConn(t, &fakeErrConn{}, "info")
	rec := httptest.NewRecorder()

	err := a.ExecuteStream(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	}, rec)
	require.NoError(t, err)
	assert.NotContains(t, rec.Body.String(), "backend exploded")
}

func TestExecuteStreamSurfacesExceptionAtDebugLogLevel(t *testing.T) {
	a := newTestAppWithConn(t, &fakeErrConn{}, "debug")
	rec := httptest.NewRecorder()

	err := a.ExecuteStream(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	}, rec)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "backend exploded")
}
