package etsy_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/etsy"
	"github.com/donaldgifford/automerch/internal/provider"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSleep(context.Context, time.Duration) error { return nil }

type recordedRequest struct {
	Method string
	Path   string
	Body   []byte
	Header http.Header
}

// fakeEtsy records requests and answers with per-route handlers.
type fakeEtsy struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
}

func (f *fakeEtsy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body, Header: r.Header.Clone()})
	f.mu.Unlock()

	if h, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeEtsy) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newClient(t *testing.T, fake *fakeEtsy, cfg etsy.Config, opts ...etsy.Option) *etsy.Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1000
	}
	base := []etsy.Option{
		etsy.WithLogger(quietLogger()),
		etsy.WithProviderOptions(
			provider.WithStaticToken("test-token"),
			provider.WithSleepFunc(noSleep),
		),
	}
	return etsy.New(cfg, nil, append(base, opts...)...)
}

func TestClient_CreateListingDraft(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
		"POST /shops/555/listings": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"listing_id":123456789,"state":"draft"}`))
		},
	}}
	c := newClient(t, fake, etsy.Config{APIKey: "key-1", ShopID: "555"})

	id, err := c.CreateListingDraft(context.Background(), etsy.Draft{
		Title:       "Mug",
		Description: "A mug",
		Price:       14.99,
		Tags:        []string{"mug", "coffee"},
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789", id)

	reqs := fake.recorded()
	require.Len(t, reqs, 2)

	assert.Equal(t, "key-1", reqs[0].Header.Get("x-api-key"))
	assert.Equal(t, "Bearer test-token", reqs[0].Header.Get("Authorization"))
	assert.JSONEq(t, `{
		"title": "Mug",
		"description": "A mug",
		"who_made": "i_did",
		"when_made": "made_to_order",
		"is_supply": false,
		"taxonomy_id": 1125,
		"type": "physical",
		"should_auto_renew": false,
		"state": "draft",
		"is_personalizable": false,
		"tags": ["mug", "coffee"]
	}`, string(reqs[0].Body))

	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/listings/123456789/inventory", reqs[1].Path)
	assert.JSONEq(t,
		`{"products":[{"offerings":[{"price":{"amount":1499,"currency_code":"USD"},"quantity":999}]}]}`,
		string(reqs[1].Body),
	)
}

func TestClient_CreateListingDraft_ShopResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfgShop   string
		boundShop string
		draftShop string
		wantPath  string
	}{
		{name: "draft shop wins", cfgShop: "cfg", boundShop: "bound", draftShop: "draft", wantPath: "/shops/draft/listings"},
		{name: "bound shop beats config", cfgShop: "cfg", boundShop: "bound", wantPath: "/shops/bound/listings"},
		{name: "config shop", cfgShop: "cfg", wantPath: "/shops/cfg/listings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeEtsy{routes: map[string]http.HandlerFunc{}}
			fake.routes["POST "+tt.wantPath] = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"listing_id":1}`))
			}
			c := newClient(t, fake, etsy.Config{ShopID: tt.cfgShop}, etsy.WithShopID(tt.boundShop))

			id, err := c.CreateListingDraft(context.Background(), etsy.Draft{ShopID: tt.draftShop, Title: "t"})
			require.NoError(t, err)
			assert.Equal(t, "1", id)
			assert.Equal(t, tt.wantPath, fake.recorded()[0].Path)
		})
	}
}

func TestClient_CreateListingDraft_NoShopConfigured(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{})

	_, err := c.CreateListingDraft(context.Background(), etsy.Draft{Title: "t"})
	require.ErrorIs(t, err, provider.ErrConfiguration)
	assert.Empty(t, fake.recorded())
}

func TestClient_CreateListingDraft_MissingListingID(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{ShopID: "1"})

	_, err := c.CreateListingDraft(context.Background(), etsy.Draft{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no listing_id")
}

func TestClient_CreateListingDraft_PriceFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
		"POST /shops/1/listings": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"listing_id":77}`))
		},
		"PUT /listings/77/inventory": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad offering"}`))
		},
	}}
	c := newClient(t, fake, etsy.Config{ShopID: "1"})

	id, err := c.CreateListingDraft(context.Background(), etsy.Draft{Title: "t", Price: 9.99})
	assert.Equal(t, "77", id)
	require.ErrorIs(t, err, etsy.ErrPriceNotSet)
	require.ErrorIs(t, err, provider.ErrFatalProvider)
}

func TestClient_CreateListingDraft_DryRun(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{DryRun: true})

	id, err := c.CreateListingDraft(context.Background(), etsy.Draft{Title: "Mug", Price: 9.99, TaxonomyID: 1125})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^DRY-RUN-\d{6}$`), id)
	assert.Empty(t, fake.recorded())
	assert.True(t, c.DryRun())
}

func TestClient_UpdateListingPrice(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{})

	require.NoError(t, c.UpdateListingPrice(context.Background(), "42", 14.99))

	reqs := fake.recorded()
	require.Len(t, reqs, 1)

	var body struct {
		Products []struct {
			Offerings []struct {
				Price    map[string]any `json:"price"`
				Quantity int            `json:"quantity"`
			} `json:"offerings"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	offering := body.Products[0].Offerings[0]
	assert.Equal(t, map[string]any{"amount": float64(1499), "currency_code": "USD"}, offering.Price)
	assert.Equal(t, 999, offering.Quantity)
}

func TestClient_UpdateListing(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{})

	require.NoError(t, c.UpdateListing(context.Background(), "42", etsy.ListingUpdate{}))
	assert.Empty(t, fake.recorded(), "empty update is a no-op")

	title := "New title"
	supply := true
	require.NoError(t, c.UpdateListing(context.Background(), "42", etsy.ListingUpdate{
		Title:    &title,
		IsSupply: &supply,
		Tags:     []string{"a"},
	}))

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/listings/42", reqs[0].Path)
	assert.JSONEq(t, `{"title":"New title","is_supply":true,"tags":["a"]}`, string(reqs[0].Body))
}

func TestClient_GetListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantPrice *float64
	}{
		{
			name:      "price with divisor",
			body:      `{"listing_id":42,"shop_id":555,"title":"Mug","state":"draft","url":"https://www.etsy.com/listing/42/mug","price":{"amount":1499,"divisor":100,"currency_code":"USD"}}`,
			wantPrice: ptr(14.99),
		},
		{
			name:      "divisor defaults to 100",
			body:      `{"listing_id":42,"price":{"amount":1499,"currency_code":"USD"}}`,
			wantPrice: ptr(14.99),
		},
		{
			name: "no price",
			body: `{"listing_id":42}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
				"GET /listings/42": func(w http.ResponseWriter, _ *http.Request) {
					_, _ = w.Write([]byte(tt.body))
				},
			}}
			c := newClient(t, fake, etsy.Config{})

			l, err := c.GetListing(context.Background(), "42")
			require.NoError(t, err)
			assert.Equal(t, "42", l.ListingID)
			if tt.wantPrice == nil {
				assert.Nil(t, l.Price)
				return
			}
			require.NotNil(t, l.Price)
			assert.InDelta(t, *tt.wantPrice, *l.Price, 1e-9)
			assert.Equal(t, "USD", l.Currency)
		})
	}
}

func TestClient_UploadListingImage(t *testing.T) {
	t.Parallel()

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}

	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	}))
	t.Cleanup(imgSrv.Close)

	localPath := filepath.Join(t.TempDir(), "local.jpg")
	require.NoError(t, os.WriteFile(localPath, jpeg, 0o600))

	tests := []struct {
		name     string
		source   string
		wantName string
	}{
		{name: "remote url", source: imgSrv.URL + "/designs/front.jpg", wantName: "front.jpg"},
		{name: "local file", source: localPath, wantName: "local.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotName string
			var gotData []byte
			fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
				"POST /listings/9/images": func(w http.ResponseWriter, r *http.Request) {
					f, hdr, err := r.FormFile("image")
					if !assert.NoError(t, err) {
						return
					}
					defer f.Close()
					gotName = hdr.Filename
					gotData, _ = io.ReadAll(f)
					_, _ = w.Write([]byte(`{"listing_image_id":1}`))
				},
			}}
			c := newClient(t, fake, etsy.Config{})

			require.NoError(t, c.UploadListingImage(context.Background(), "9", tt.source))
			assert.Equal(t, tt.wantName, gotName)
			assert.Equal(t, jpeg, gotData)
		})
	}
}

func TestClient_UploadListingImage_ContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		data     []byte
		wantType string
	}{
		{name: "png", file: "design.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), wantType: "image/png"},
		{name: "webp", file: "design.webp", data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), wantType: "image/webp"},
		{name: "jpeg", file: "design.jpg", data: []byte{0xff, 0xd8, 0xff, 0xe0}, wantType: "image/jpeg"},
		{name: "png by extension", file: "mockup.png", data: []byte("not sniffable"), wantType: "image/png"},
		{name: "unknown defaults to jpeg", file: "mockup.bin", data: []byte("not sniffable"), wantType: "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(src, tt.data, 0o600))

			var gotType string
			fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
				"POST /listings/9/images": func(w http.ResponseWriter, r *http.Request) {
					_, hdr, err := r.FormFile("image")
					if !assert.NoError(t, err) {
						return
					}
					gotType = hdr.Header.Get("Content-Type")
					_, _ = w.Write([]byte(`{"listing_image_id":1}`))
				},
			}}
			c := newClient(t, fake, etsy.Config{})

			require.NoError(t, c.UploadListingImage(context.Background(), "9", src))
			assert.Equal(t, tt.wantType, gotType)
		})
	}
}

func TestClient_UploadListingImage_MissingFile(t *testing.T) {
	t.Parallel()

	fake := &fakeEtsy{}
	c := newClient(t, fake, etsy.Config{})

	err := c.UploadListingImage(context.Background(), "9", filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading image")
	assert.Empty(t, fake.recorded())
}

func TestPool(t *testing.T) {
	t.Parallel()

	p := etsy.NewPool(etsy.Config{DryRun: true}, nil)

	a := p.Client("shop-a")
	assert.Same(t, a, p.Client("shop-a"))
	assert.NotSame(t, a, p.Client("shop-b"))
	assert.NotSame(t, a.RateLimiter(), p.Client("shop-b").RateLimiter())
	assert.Equal(t, "shop-a", a.ShopID())
	assert.True(t, p.DryRun())
}

func TestClient_ProviderCallCount(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fake := &fakeEtsy{routes: map[string]http.HandlerFunc{
		"GET /listings/1": func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"listing_id":1}`))
		},
	}}
	c := newClient(t, fake, etsy.Config{MaxRetries: 2})

	_, err := c.GetListing(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func ptr[T any](v T) *T { return &v }
