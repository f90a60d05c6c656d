// Command sdqc runs the schema-driven query core as an HTTP service: one
// endpoint for batch requests, one for streaming progress over SSE, plus a
// background job that keeps the catalog warm via periodic reload.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/app"
	"github.com/DanielChung520/AI-Box-sub009/internal/config"
	"github.com/DanielChung520/AI-Box-sub009/internal/lynxrt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("sdqc exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wiring app: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/query", handleExecute(a))
	mux.HandleFunc("POST /v1/query/stream", handleExecuteStream(a))
	mux.HandleFunc("GET /healthz", handleHealthz)

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	reload := &lynxrt.ReloadJob{
		Fn:       a.Reload,
		Interval: time.Duration(cfg.CatalogReloadMinutes) * time.Minute,
		Log:      a.Log,
	}

	runtime := lynxrt.New(a.Log, &httpServerJob{server: server, log: a.Log}, reload)
	return runtime.Run(ctx)
}

func handleExecute(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req app.ExecuteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		resp := a.Execute(r.Context(), req)
		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "error" {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func handleExecuteStream(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req app.ExecuteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := a.ExecuteStream(r.Context(), req, w); err != nil {
			a.Log.Warn("stream ended with error", "error", err)
		}
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// httpServerJob adapts *http.Server to lynxrt.Job: Start launches it in the
// background and treats ErrServerClosed as success, Stop drains it with a
// bounded grace period.
type httpServerJob struct {
	server *http.Server
	log    *slog.Logger
}

func (j *httpServerJob) Start(context.Context) error {
	go func() {
		if err := j.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			j.log.Error("http server failed", "error", err)
		}
	}()
	return nil
}

func (j *httpServerJob) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return j.server.Shutdown(ctx)
}
