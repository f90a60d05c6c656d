package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/i18n"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
)

// Execute runs one NLQ end to end and returns the batch response shape.
// It never returns a Go error: every failure mode is represented as a
// Response with Status "error", since the error itself is part of the
// contract a caller receives, not an exceptional condition.
func (a *App) Execute(ctx context.Context, req ExecuteRequest) *Response {
	start := time.Now()
	taskID := req.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	locale := localeFor(req)
	timeout := timeoutFor(a, req)

	pi := a.Parser.Parse(ctx, req.TaskData.NLQ)
	if req.TaskData.Options.Limit > 0 {
		pi.Limit = req.TaskData.Options.Limit
	}

	if err := a.Validator.Validate(pi); err != nil {
		return a.errorResponse(taskID, err, locale, start)
	}

	rc, err := a.Resolver.Execute(ctx, req.TaskData.NLQ, a.Dialect, pi)
	if err != nil {
		return a.errorResponse(taskID, err, locale, start)
	}

	cacheKey := sqlgen.Fingerprint(a.Dialect, rc.Query)
	result, runErr := a.Executor.Run(ctx, rc.SQL, timeout, cacheKey)
	if runErr != nil {
		return a.errorResponse(taskID, asAppError(runErr), locale, start)
	}

	data := make([]map[string]any, len(result.Rows))
	for i, row := range result.Rows {
		data[i] = map[string]any(row)
	}

	pageSize := rc.Query.Limit
	page := 1
	if pageSize > 0 {
		page = rc.Query.Offset/pageSize + 1
	}

	return &Response{
		Status:     "success",
		TaskID:     taskID,
		SQL:        rc.SQL,
		Data:       data,
		SchemaUsed: a.Config.SystemID,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalRows:  result.RowCount,
			TotalPages: totalPages(result.RowCount, pageSize),
		},
		TokenUsage: pi.TokenUsage,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func (a *App) errorResponse(taskID string, err *apperror.Error, locale string, start time.Time) *Response {
	message := a.I18n.Message(locale, "error."+string(err.Code))
	return &Response{
		Status:     "error",
		TaskID:     taskID,
		DurationMs: time.Since(start).Milliseconds(),
		Error: &ErrorInfo{
			Code:        string(err.Code),
			Message:     message,
			Suggestions: err.Suggestions,
			Exception:   a.debugException(err),
		},
	}
}

// debugException surfaces the raw upstream error text only when the
// process is running at debug log level; it is never sent to a client
// otherwise, since it can carry raw backend error text.
func (a *App) debugException(err *apperror.Error) string {
	if a.Config.LogLevel != "debug" {
		return ""
	}
	return err.Exception
}

func asAppError(err error) *apperror.Error {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperror.Wrap(apperror.InternalError, "unexpected failure", err)
}

func localeFor(req ExecuteRequest) string {
	if req.TaskData.Options.Locale != "" {
		return req.TaskData.Options.Locale
	}
	if req.Locale != "" {
		return req.Locale
	}
	return i18n.FallbackLocale
}

func timeoutFor(a *App, req ExecuteRequest) time.Duration {
	secs := req.TaskData.Options.TimeoutSecs
	if secs <= 0 {
		secs = a.Config.DefaultTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

func totalPages(totalRows, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := totalRows / pageSize
	if totalRows%pageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}
