package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/donaldgifford/automerch/internal/api/client"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// captureOutput points stdout at a buffer and the client at srv.
func captureOutput(t *testing.T, srv *httptest.Server, output string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	viper.Set("server", srv.URL)
	viper.Set("output", output)
	t.Cleanup(func() {
		stdout = prev
		viper.Reset()
	})
	return &buf
}

func TestReadDrafts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantTitle []string
		wantErr   string
	}{
		{
			name: "yaml",
			content: `- title: Retro Tee
  description: Soft cotton
  price: 24.99
  sku: TEE-RETRO
  images: [front.png]
- title: Retro Mug
  description: Ceramic
`,
			wantTitle: []string{"Retro Tee", "Retro Mug"},
		},
		{
			name:      "json",
			content:   `[{"title":"Sticker","description":"Vinyl","tags":["retro"]}]`,
			wantTitle: []string{"Sticker"},
		},
		{
			name:    "empty",
			content: `[]`,
			wantErr: "no drafts",
		},
		{
			name:    "malformed",
			content: `title: [`,
			wantErr: "parsing drafts file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "drafts.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			drafts, err := readDrafts(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var titles []string
			for _, d := range drafts {
				titles = append(titles, d.Title)
			}
			assert.Equal(t, tt.wantTitle, titles)
		})
	}
}

func TestShopsList_Table(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/shops", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]domain.Shop{
			{ShopID: "111", ShopName: "Retro Prints", IsActive: true, IsDefault: true},
		})
	}))
	defer srv.Close()
	out := captureOutput(t, srv, "table")

	c := shopsListCmd()
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "SHOP ID")
	assert.Contains(t, out.String(), "Retro Prints")
}

func TestJobsRun_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/sync_prices/run", r.URL.Path)
		_ = json.NewEncoder(w).Encode(apiclient.JobResult{Job: "sync_prices", Examined: 3, DryRun: true})
	}))
	defer srv.Close()
	out := captureOutput(t, srv, "json")

	c := jobsRunCmd()
	c.SetArgs([]string{"sync_prices"})
	require.NoError(t, c.Execute())

	var res apiclient.JobResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 3, res.Examined)
	assert.True(t, res.DryRun)
}

func TestListingsPrice_RejectsBadPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()
	captureOutput(t, srv, "table")

	c := listingsPriceCmd()
	c.SetArgs([]string{"987", "free"})
	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid price "free"`)
}

func TestPrintQuotaTable(t *testing.T) {
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	reset := time.Date(2026, 6, 16, 14, 30, 0, 0, time.UTC)
	require.NoError(t, printQuotaTable([]apiclient.Quota{
		{Client: "etsy:111", DailyLimit: 10000, DailyUsed: 142, Remaining: 9858, ResetAt: reset},
		{Client: "printful", Remaining: -1, ResetAt: reset},
	}))

	assert.Contains(t, buf.String(), "9858")
	assert.Contains(t, buf.String(), "unlimited")
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	price := 14.5
	qty := 3
	assert.Equal(t, "$14.50", money(&price))
	assert.Equal(t, "-", money(nil))
	assert.Equal(t, "3", intOrDash(&qty))
	assert.Equal(t, "-", intOrDash(nil))
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "Retro...", truncate("Retro Tee Shirt", 8))
	assert.Equal(t, "short", truncate("short", 8))
}
