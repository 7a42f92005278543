package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/automerch/internal/metrics"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// Schedule holds the interval of each job. A zero interval leaves the job
// unscheduled.
type Schedule struct {
	TokenRefresh  time.Duration
	PriceSync     time.Duration
	InventorySync time.Duration
	Listing       time.Duration
}

// Scheduler runs engine jobs on fixed intervals.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	log     *slog.Logger
	entries map[string]cron.EntryID
}

// NewScheduler creates a new Scheduler that runs engine jobs on a schedule.
// A job still running when its next tick fires is skipped.
func NewScheduler(eng *Engine, sched Schedule, log *slog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:    c,
		engine:  eng,
		log:     log,
		entries: make(map[string]cron.EntryID),
	}

	for _, j := range []struct {
		name     string
		interval time.Duration
	}{
		{domain.JobTokenRefresh, sched.TokenRefresh},
		{domain.JobPriceSync, sched.PriceSync},
		{domain.JobInventorySync, sched.InventorySync},
		{domain.JobListPending, sched.Listing},
	} {
		if j.interval <= 0 {
			continue
		}
		name := j.name
		id, err := c.AddFunc("@every "+j.interval.String(), func() { s.run(name) })
		if err != nil {
			return nil, fmt.Errorf("scheduling %s: %w", name, err)
		}
		s.entries[name] = id
	}

	return s, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.entries))
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Next returns the next run time of job, or false when it is not scheduled.
func (s *Scheduler) Next(job string) (time.Time, bool) {
	id, ok := s.entries[job]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// SyncNextRunTimestamps publishes each job's next run time as a gauge.
func (s *Scheduler) SyncNextRunTimestamps() {
	for job, id := range s.entries {
		if next := s.cron.Entry(id).Next; !next.IsZero() {
			metrics.SchedulerNextRunTimestamp.WithLabelValues(job).Set(float64(next.Unix()))
		}
	}
}

func (s *Scheduler) run(job string) {
	ctx := context.Background()
	s.log.Info("scheduled job starting", "job", job)
	if _, err := s.engine.RunJob(ctx, job); err != nil {
		s.log.Error("scheduled job failed", "job", job, "error", err)
	}
	s.SyncNextRunTimestamps()
}
