package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/engine"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// JobRunner runs a background job on demand.
type JobRunner interface {
	RunJob(ctx context.Context, name string) (*engine.JobResult, error)
}

// RunLogLister reads job run history.
type RunLogLister interface {
	ListRunLogs(ctx context.Context, job string, limit int) ([]domain.RunLog, error)
}

// NextRunner reports when a scheduled job next fires.
type NextRunner interface {
	Next(job string) (time.Time, bool)
}

// JobsHandler triggers jobs and reports their history.
type JobsHandler struct {
	runner JobRunner
	logs   RunLogLister
	sched  NextRunner
}

// NewJobsHandler creates a new JobsHandler. sched may be nil when the
// scheduler is disabled.
func NewJobsHandler(r JobRunner, logs RunLogLister, sched NextRunner) *JobsHandler {
	return &JobsHandler{runner: r, logs: logs, sched: sched}
}

// JobInfo describes a runnable job.
type JobInfo struct {
	Name    string     `json:"name"               example:"sync_prices"          doc:"Job name"`
	NextRun *time.Time `json:"next_run,omitempty" example:"2026-01-02T15:04:05Z" doc:"Next scheduled run; absent when not scheduled"`
}

// ListJobsOutput is the response body for listing jobs.
type ListJobsOutput struct {
	Body []JobInfo
}

// RunJobInput selects the job to run.
type RunJobInput struct {
	Job string `path:"job" example:"sync_prices" doc:"One of token_refresh, sync_prices, sync_inventory, list_to_etsy"`
}

// RunJobOutput is the summary of a manual run.
type RunJobOutput struct {
	Body *engine.JobResult
}

// ListRunsInput filters run history.
type ListRunsInput struct {
	Job   string `query:"job"                              doc:"Filter by job name"`
	Limit int    `query:"limit" minimum:"0" maximum:"500"  doc:"Maximum runs returned, default 50"`
}

// ListRunsOutput is the run history, newest first.
type ListRunsOutput struct {
	Body []domain.RunLog
}

// List returns every job with its next scheduled run.
func (h *JobsHandler) List(_ context.Context, _ *struct{}) (*ListJobsOutput, error) {
	names := engine.Jobs()
	out := make([]JobInfo, 0, len(names))
	for _, name := range names {
		info := JobInfo{Name: name}
		if h.sched != nil {
			if next, ok := h.sched.Next(name); ok {
				info.NextRun = &next
			}
		}
		out = append(out, info)
	}
	return &ListJobsOutput{Body: out}, nil
}

// Run executes a job synchronously and returns its summary.
func (h *JobsHandler) Run(ctx context.Context, in *RunJobInput) (*RunJobOutput, error) {
	res, err := h.runner.RunJob(ctx, in.Job)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownJob) {
			return nil, huma.Error404NotFound(err.Error())
		}
		return nil, mapError("running "+in.Job, err)
	}
	return &RunJobOutput{Body: res}, nil
}

// Runs returns the run history.
func (h *JobsHandler) Runs(ctx context.Context, in *ListRunsInput) (*ListRunsOutput, error) {
	runs, err := h.logs.ListRunLogs(ctx, in.Job, clampLimit(in.Limit))
	if err != nil {
		return nil, huma.Error500InternalServerError("listing job runs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.RunLog{}
	}
	return &ListRunsOutput{Body: runs}, nil
}

// RegisterJobRoutes registers job endpoints with the Huma API.
func RegisterJobRoutes(api huma.API, h *JobsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List jobs",
		Description: "Returns every background job and, when the scheduler is running, its next run time.",
		Tags:        []string{"jobs"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "list-job-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/runs",
		Summary:     "List job runs",
		Description: "Returns the run log, newest first.",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Runs)

	huma.Register(api, huma.Operation{
		OperationID: "run-job",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs/{job}/run",
		Summary:     "Run a job now",
		Description: "Runs the job synchronously and returns its summary. Honors dry run.",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Run)
}
