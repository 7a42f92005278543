package client

import (
	"context"
	"time"
)

// Quota is the daily call budget of one provider client.
type Quota struct {
	Client     string    `json:"client"`
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// GetQuota returns the daily quota of every provider client.
func (c *Client) GetQuota(ctx context.Context) ([]Quota, error) {
	var q []Quota
	if err := c.get(ctx, "/api/v1/quota", nil, &q); err != nil {
		return nil, err
	}
	return q, nil
}
