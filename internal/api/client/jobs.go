package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// Job is a background job and its next scheduled run.
type Job struct {
	Name    string     `json:"name"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// JobResult summarizes one job run.
type JobResult struct {
	Job      string `json:"job"`
	Examined int    `json:"examined"`
	Changed  int    `json:"changed"`
	Errors   int    `json:"errors"`
	DryRun   bool   `json:"dry_run"`
}

// TokenRefresh is the result of a forced token refresh.
type TokenRefresh struct {
	Refreshed bool       `json:"refreshed"`
	ShopID    string     `json:"shop_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListJobs returns every job and its next run.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.get(ctx, "/api/v1/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// RunJob runs a job now and returns its summary.
func (c *Client) RunJob(ctx context.Context, name string) (*JobResult, error) {
	var res JobResult
	if err := c.post(ctx, "/api/v1/jobs/"+url.PathEscape(name)+"/run", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRuns returns the run log, newest first. An empty job returns every job.
func (c *Client) ListRuns(ctx context.Context, job string, limit int) ([]domain.RunLog, error) {
	q := map[string]string{"job": job}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}

	var runs []domain.RunLog
	if err := c.get(ctx, "/api/v1/jobs/runs", q, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// RefreshToken forces a refresh of the shop's OAuth token.
func (c *Client) RefreshToken(ctx context.Context, shopID string) (*TokenRefresh, error) {
	path := "/auth/etsy/refresh"
	if shopID != "" {
		path += "?shop_id=" + url.QueryEscape(shopID)
	}

	var out TokenRefresh
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
