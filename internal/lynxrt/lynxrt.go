// Package lynxrt is the process lifecycle runner: start a fixed set of
// background jobs, block until a shutdown signal arrives, then stop every
// job in turn. Grounded on core/lynx/lynx.go's start/wait/stop shape.
package lynxrt

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Job is a background unit with an explicit start and stop, e.g. the
// catalog warm-reload ticker. Same shape as core/job.Job.
type Job interface {
	Start(ctx context.Context) error
	Stop() error
}

// Runtime starts a fixed set of Jobs, waits for SIGHUP/SIGQUIT/SIGTERM/
// SIGINT, then stops them in the order they were given.
type Runtime struct {
	log      *slog.Logger
	jobs     []Job
	stopChan chan os.Signal
}

// New builds a Runtime over jobs, logging through log (or a text logger on
// stderr if nil).
func New(log *slog.Logger, jobs ...Job) *Runtime {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Runtime{
		log:      log,
		jobs:     jobs,
		stopChan: make(chan os.Signal, 1),
	}
}

// Run starts every job, blocks until a shutdown signal is received, then
// stops every job and returns any errors encountered joined together.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.start(ctx); err != nil {
		return err
	}
	r.wait()
	return r.stop()
}

func (r *Runtime) start(ctx context.Context) error {
	r.log.Info("lynxrt starting", "jobs", len(r.jobs))
	errs := make([]error, 0, len(r.jobs))
	for _, j := range r.jobs {
		errs = append(errs, j.Start(ctx))
	}
	return errors.Join(errs...)
}

func (r *Runtime) wait() {
	signal.Notify(r.stopChan, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	sig := <-r.stopChan
	close(r.stopChan)
	r.log.Info("lynxrt received shutdown signal", "signal", sig.String())
}

func (r *Runtime) stop() error {
	r.log.Info("lynxrt stopping")
	errs := make([]error, 0, len(r.jobs))
	for _, j := range r.jobs {
		errs = append(errs, j.Stop())
	}
	return errors.Join(errs...)
}
