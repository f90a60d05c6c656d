package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
	"github.com/DanielChung520/AI-Box-sub009/internal/sse"
)

// streamEvent is the JSON payload carried by every SSE message's data
// field, per the stream's wire contract: {stage, message, data}.
type streamEvent struct {
	Stage   sse.Stage `json:"stage"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// ExecuteStream runs one NLQ end to end like Execute, but emits the
// canonical progress stages as Server-Sent Events instead of returning one
// batch Response. It blocks until the stream terminates (final, error, or
// client disconnect) and returns any transport-level write error.
func (a *App) ExecuteStream(ctx context.Context, req ExecuteRequest, w http.ResponseWriter) error {
	taskID := req.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	locale := localeFor(req)
	timeout := timeoutFor(a, req)

	writer, err := sse.NewWriter(&sse.WriterConfig{Context: ctx, ResponseWriter: w, HeartBeat: 15 * time.Second})
	if err != nil {
		return err
	}
	tracker := sse.NewStageTracker()

	emit := func(stage sse.Stage, data any) error {
		if err := tracker.Allow(stage); err != nil {
			return err
		}
		event := streamEvent{Stage: stage, Message: a.I18n.Message(locale, "stage."+string(stage)), Data: data}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return writer.Send(&sse.Message{Event: string(stage), Data: payload})
	}

	emitErr := func(ae *apperror.Error) error {
		_ = tracker.Allow(sse.StageError)
		event := streamEvent{
			Stage:   sse.StageError,
			Message: a.I18n.Message(locale, "error."+string(ae.Code)),
			Data: ErrorInfo{
				Code:        string(ae.Code),
				Message:     a.I18n.Message(locale, "error."+string(ae.Code)),
				Suggestions: ae.Suggestions,
				Exception:   a.debugException(ae),
			},
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return writer.Send(&sse.Message{Event: string(sse.StageError), Data: payload})
	}

	if err := emit(sse.StageRequestReceived, nil); err != nil {
		return errJoinClose(writer, err)
	}

	pi := a.Parser.Parse(ctx, req.TaskData.NLQ)
	if req.TaskData.Options.Limit > 0 {
		pi.Limit = req.TaskData.Options.Limit
	}

	if valErr := a.Validator.Validate(pi); valErr != nil {
		_ = emitErr(valErr)
		return writer.Close()
	}
	if err := emit(sse.StageSchemaConfirmed, nil); err != nil {
		return errJoinClose(writer, err)
	}

	rc, resErr := a.Resolver.Execute(ctx, req.TaskData.NLQ, a.Dialect, pi)
	if resErr != nil {
		_ = emitErr(resErr)
		return writer.Close()
	}
	if err := emit(sse.StageSQLGenerated, map[string]string{"sql": rc.SQL}); err != nil {
		return errJoinClose(writer, err)
	}

	if err := emit(sse.StageQueryExecuting, nil); err != nil {
		return errJoinClose(writer, err)
	}
	cacheKey := sqlgen.Fingerprint(a.Dialect, rc.Query)
	result, runErr := a.Executor.Run(ctx, rc.SQL, timeout, cacheKey)
	if runErr != nil {
		_ = emitErr(asAppError(runErr))
		return writer.Close()
	}
	if err := emit(sse.StageQueryCompleted, map[string]int{"row_count": result.RowCount}); err != nil {
		return errJoinClose(writer, err)
	}

	if err := emit(sse.StageResultValidating, nil); err != nil {
		return errJoinClose(writer, err)
	}

	data := make([]map[string]any, len(result.Rows))
	for i, row := range result.Rows {
		data[i] = map[string]any(row)
	}
	if err := emit(sse.StageResultReady, map[string]any{"data": data, "row_count": result.RowCount}); err != nil {
		return errJoinClose(writer, err)
	}

	if err := emit(sse.StageFinal, map[string]string{"task_id": taskID}); err != nil {
		return errJoinClose(writer, err)
	}
	return writer.Close()
}

func errJoinClose(w *sse.Writer, err error) error {
	closeErr := w.Close()
	if closeErr == nil {
		return err
	}
	return closeErr
}
