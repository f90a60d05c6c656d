package app

import "github.com/DanielChung520/AI-Box-sub009/internal/parser"

// ExecuteRequest is the single entry point's input shape, shared by the
// batch and streaming paths.
type ExecuteRequest struct {
	TaskID   string           `json:"task_id"`
	Locale   string           `json:"locale,omitempty"`
	TaskData ExecuteTaskData  `json:"task_data"`
}

// ExecuteTaskData carries the actual question plus per-request overrides.
type ExecuteTaskData struct {
	NLQ     string         `json:"nlq"`
	Options ExecuteOptions `json:"options,omitempty"`
}

// ExecuteOptions lets one request override the process defaults.
type ExecuteOptions struct {
	TimeoutSecs int    `json:"timeout,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// Pagination reports the page shape of a batch response's data.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}

// ErrorInfo is the error shape carried by a failed batch response.
type ErrorInfo struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	Exception   string   `json:"exception,omitempty"`
}

// Response is the batch-mode output shape.
type Response struct {
	Status      string           `json:"status"` // "success" or "error"
	TaskID      string           `json:"task_id"`
	SQL         string           `json:"sql,omitempty"`
	Data        []map[string]any `json:"data,omitempty"`
	SchemaUsed  string           `json:"schema_used,omitempty"`
	Pagination  Pagination       `json:"pagination"`
	TokenUsage  parser.TokenUsage `json:"token_usage"`
	DurationMs  int64            `json:"duration_ms"`
	Error       *ErrorInfo       `json:"error,omitempty"`
}
