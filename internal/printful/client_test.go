package printful_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/printful"
	"github.com/donaldgifford/automerch/internal/provider"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSleep(context.Context, time.Duration) error { return nil }

func newClient(t *testing.T, h http.HandlerFunc, mods ...func(*printful.Config)) *printful.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := printful.Config{
		BaseURL:           srv.URL,
		APIKey:            "pf-key",
		RequestsPerSecond: 1000,
		MaxRetries:        2,
	}
	for _, m := range mods {
		m(&cfg)
	}
	return printful.New(cfg,
		printful.WithLogger(quietLogger()),
		printful.WithProviderOptions(provider.WithSleepFunc(noSleep)),
	)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/store/products", r.URL.Path)
		assert.Equal(t, "Bearer pf-key", r.Header.Get("Authorization"))
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&got)) {
			return
		}
		writeJSON(w, map[string]any{"code": 200, "result": map[string]any{
			"sync_product":  map[string]any{"id": 987, "name": "Cat Mug"},
			"sync_variants": []any{map[string]any{"id": 555}},
		}})
	})

	res, err := c.CreateProduct(context.Background(), printful.ProductInput{
		Name:        "Cat Mug",
		Thumbnail:   "https://img/thumb.png",
		SKU:         "MUG-CAT",
		VariantID:   4011,
		RetailPrice: 14.5,
		DesignURL:   "https://img/design.png",
	})
	require.NoError(t, err)
	assert.Equal(t, &printful.SyncResult{ProductID: "987", ProductName: "Cat Mug", VariantID: "555"}, res)

	sp := got["sync_product"].(map[string]any)
	assert.Equal(t, "MUG-CAT", sp["external_id"])
	sv := got["sync_variants"].([]any)[0].(map[string]any)
	assert.Equal(t, "14.50", sv["retail_price"])
	assert.InDelta(t, 4011, sv["variant_id"], 0)
	files := sv["files"].([]any)
	require.Len(t, files, 1)
	assert.Equal(t, "https://img/design.png", files[0].(map[string]any)["url"])
}

func TestCreateProductWithVariants(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"code": 200, "result": map[string]any{
			"sync_product":  map[string]any{"id": 1},
			"sync_variants": []any{map[string]any{"id": "sv-1"}},
		}})
	})

	got, err := c.CreateProductWithVariants(context.Background(), "Mug", "", "MUG", []printful.VariantInput{
		{SKU: "MUG-11", VariantID: 4011, RetailPrice: 12},
		{SKU: "MUG-15", VariantID: 4012, RetailPrice: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, []printful.VariantMapping{
		{SKU: "MUG-11", VariantID: "sv-1"},
		{SKU: "MUG-15", VariantID: "4012"},
	}, got)
}

func TestGetProductVariants(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store/products/42", r.URL.Path)
		writeJSON(w, map[string]any{"code": 200, "result": map[string]any{
			"sync_product": map[string]any{"id": 42, "name": "Tee"},
			"sync_variants": []any{
				map[string]any{"id": 1, "sku": "TEE-S", "retail_price": "20.00"},
				map[string]any{"id": 2, "sku": "TEE-M", "retail_price": "21.00"},
			},
		}})
	})

	vs, err := c.GetProductVariants(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, provider.ID("2"), vs[1].ID)
	assert.Equal(t, "TEE-M", vs[1].SKU)
}

func TestGetOrders(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		writeJSON(w, map[string]any{"code": 200, "result": []any{
			map[string]any{"id": 7, "status": "fulfilled"},
		}})
	})

	orders, err := c.GetOrders(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "fulfilled", orders[0].Status)
}

func TestDeleteProduct_Fatal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"error":{"message":"Not found"}}`))
	})

	err := c.DeleteProduct(context.Background(), "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrFatalProvider)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMissingAPIKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newClient(t, func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}, func(cfg *printful.Config) { cfg.APIKey = "" })

	_, err := c.GetStoreInfo(context.Background())
	require.ErrorIs(t, err, provider.ErrConfiguration)
	assert.Zero(t, calls.Load())
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newClient(t, func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}, func(cfg *printful.Config) {
		cfg.DryRun = true
		cfg.APIKey = ""
	})
	ctx := context.Background()

	res, err := c.CreateProduct(ctx, printful.ProductInput{Name: "X", SKU: "X-1", VariantID: 4011})
	require.NoError(t, err)
	assert.Equal(t, "12345", res.ProductID)
	assert.Equal(t, "VARIANT-DRYRUN-123", res.VariantID)

	vs, err := c.GetCatalogVariants(ctx, 19)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, 4011, vs[0].ID)
	assert.Equal(t, "15oz Mug", vs[1].Name)

	store, err := c.GetStoreInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dry Run Store", store.Name)
	assert.Equal(t, "USD", store.Currency)

	orders, err := c.GetOrders(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)

	mk, err := c.CreateMockup(ctx, printful.MockupRequest{SyncProductID: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/mockup.jpg", mk.MockupURL)
	assert.Equal(t, "front", mk.Placement)

	require.NoError(t, c.DeleteProduct(ctx, "12345"))
	assert.Zero(t, calls.Load())
}
