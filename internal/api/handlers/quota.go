package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/provider"
)

// LimiterSource returns the rate limiters to report, keyed by a label such
// as "printful" or "etsy:<shop_id>".
type LimiterSource func() map[string]*provider.RateLimiter

// QuotaHandler provides the provider API quota status endpoint.
type QuotaHandler struct {
	limiters LimiterSource
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(src LimiterSource) *QuotaHandler {
	return &QuotaHandler{limiters: src}
}

// QuotaStatus is the usage of one rate limiter.
type QuotaStatus struct {
	Client     string    `json:"client"      example:"etsy:12345678"        doc:"Provider client the limiter belongs to"`
	DailyLimit int64     `json:"daily_limit" example:"10000"                doc:"Configured daily call limit; 0 when unlimited"`
	DailyUsed  int64     `json:"daily_used"  example:"142"                  doc:"Calls made in the current 24-hour window"`
	Remaining  int64     `json:"remaining"   example:"9858"                 doc:"Calls left in the window; -1 when unlimited"`
	ResetAt    time.Time `json:"reset_at"    example:"2026-06-16T14:30:00Z" doc:"When the current 24-hour window expires"`
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body []QuotaStatus
}

// GetQuota returns the quota status of every provider client.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{Body: []QuotaStatus{}}
	if h.limiters == nil {
		return resp, nil
	}

	for name, rl := range h.limiters() {
		if rl == nil {
			continue
		}
		resp.Body = append(resp.Body, QuotaStatus{
			Client:     name,
			DailyLimit: rl.MaxDaily(),
			DailyUsed:  rl.DailyCount(),
			Remaining:  rl.Remaining(),
			ResetAt:    rl.ResetAt(),
		})
	}
	sort.Slice(resp.Body, func(i, j int) bool { return resp.Body[i].Client < resp.Body[j].Client })

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get provider API quota status",
		Description: "Returns the daily call usage, remaining quota and window reset time of each provider client.",
		Tags:        []string{"quota"},
	}, h.GetQuota)
}
