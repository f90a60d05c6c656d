package lynxrt

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// ReloadFunc re-reads the catalog and swaps it into the live App. Matches
// (*app.App).Reload's signature without importing internal/app, so this
// package stays a generic runner.
type ReloadFunc func(ctx context.Context) error

// ReloadJob runs Fn on a cron schedule, logging failures but never stopping
// the schedule over one bad reload — the previous catalog stays live.
// Grounded on core/trigger.CronTrigger's robfig/cron/v3-backed scheduling,
// adopted directly rather than through CronTrigger's Trigger/Worker
// abstraction, which this single-job runner has no use for.
type ReloadJob struct {
	Fn       ReloadFunc
	Interval time.Duration // converted to an "@every" cron spec
	Log      *slog.Logger

	running atomic.Bool
	cron    *cron.Cron
}

// Start schedules the reload loop in the background and returns immediately.
func (j *ReloadJob) Start(ctx context.Context) error {
	if j.running.Load() {
		return nil
	}
	j.running.Store(true)

	j.cron = cron.New()
	_, err := j.cron.AddFunc(j.spec(), func() {
		if err := j.Fn(ctx); err != nil {
			j.log().Warn("scheduled catalog reload failed", "error", err)
		}
	})
	if err != nil {
		j.running.Store(false)
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for any in-flight reload to finish.
func (j *ReloadJob) Stop() error {
	if !j.running.Load() {
		return nil
	}
	j.running.Store(false)
	<-j.cron.Stop().Done()
	return nil
}

func (j *ReloadJob) spec() string {
	interval := j.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return fmt.Sprintf("@every %s", interval)
}

func (j *ReloadJob) log() *slog.Logger {
	if j.Log != nil {
		return j.Log
	}
	return slog.Default()
}
