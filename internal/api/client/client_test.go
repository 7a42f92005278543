package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1")
	_, err := c.ListShops(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running at http://127.0.0.1:1")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "problem body",
			body:       `{"title":"Bad Gateway","status":502,"detail":"creating draft: etsy returned 500"}`,
			wantStatus: http.StatusBadGateway,
			wantDetail: "creating draft: etsy returned 500",
			wantMsg:    "API error (HTTP 502): creating draft: etsy returned 500",
		},
		{
			name:       "plain body",
			body:       `upstream down`,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "API error (HTTP 503): upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.wantStatus)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetShop(context.Background(), "12345678")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestClient_ListShops(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/shops", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active_only"))
		assert.Equal(t, "amctl/1.0", r.Header.Get("User-Agent"))
		writeJSON(w, http.StatusOK, []domain.Shop{{ShopID: "111", IsDefault: true}})
	})

	shops, err := c.ListShops(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "111", shops[0].ShopID)
	assert.True(t, shops[0].IsDefault)
}

func TestClient_DeleteShop(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/shops/111", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteShop(context.Background(), "111"))
}

func TestClient_CreateDraft(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/drafts", r.URL.Path)

		var in DraftInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Retro Tee", in.Title)
		assert.Equal(t, "TEE-1", in.SKU)

		writeJSON(w, http.StatusCreated, Draft{
			ListingID: "987",
			ShopID:    "111",
			Status:    domain.ListingDraft,
			PriceSet:  true,
		})
	})

	d, err := c.CreateDraft(context.Background(), &DraftInput{
		SKU:         "TEE-1",
		Title:       "Retro Tee",
		Description: "Soft cotton",
		Price:       24.99,
	})
	require.NoError(t, err)
	assert.Equal(t, "987", d.ListingID)
	assert.Equal(t, domain.ListingDraft, d.Status)
	assert.True(t, d.PriceSet)
}

func TestClient_ListDrafts(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "111", q.Get("shop_id"))
		assert.Equal(t, "draft", q.Get("status"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.False(t, q.Has("sku"), "empty filters are omitted")
		assert.False(t, q.Has("offset"))
		writeJSON(w, http.StatusOK, ListingPage{
			Listings: []domain.Listing{{ListingID: "987", Status: domain.ListingDraft}},
			Total:    1,
		})
	})

	page, err := c.ListDrafts(context.Background(), ListingFilter{ShopID: "111", Status: "draft", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, "987", page.Listings[0].ListingID)
}

func TestClient_UpdateListingPrice(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/listings/987/price", r.URL.Path)
		assert.Equal(t, "222", r.URL.Query().Get("shop_id"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"price":19.99}`, string(body))
		writeJSON(w, http.StatusOK, map[string]any{"listing_id": "987", "price": 19.99})
	})

	require.NoError(t, c.UpdateListingPrice(context.Background(), "987", "222", 19.99))
}

func TestClient_RunJob(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/jobs/sync_prices/run", r.URL.Path)
		writeJSON(w, http.StatusOK, JobResult{Job: "sync_prices", Examined: 4, Changed: 2})
	})

	res, err := c.RunJob(context.Background(), "sync_prices")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Examined)
	assert.Equal(t, 2, res.Changed)
}

func TestClient_RefreshToken(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/etsy/refresh", r.URL.Path)
		assert.Equal(t, "111", r.URL.Query().Get("shop_id"))
		writeJSON(w, http.StatusOK, TokenRefresh{Refreshed: true, ShopID: "111", ExpiresAt: &exp})
	})

	res, err := c.RefreshToken(context.Background(), "111")
	require.NoError(t, err)
	assert.True(t, res.Refreshed)
	require.NotNil(t, res.ExpiresAt)
	assert.True(t, exp.Equal(*res.ExpiresAt))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []Quota{{Client: "printful", Remaining: -1}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), WithTimeout(5*time.Second))
	q, err := c.GetQuota(context.Background())
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, "printful", q[0].Client)
}
