// Package etsy implements the Etsy Open API v3 listing operations on top of
// the shared provider client.
package etsy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/donaldgifford/automerch/internal/provider"
)

const (
	// ProviderName labels Etsy calls in logs and metrics.
	ProviderName = "etsy"

	// DefaultBaseURL is the Etsy Open API v3 application root.
	DefaultBaseURL = "https://openapi.etsy.com/v3/application"

	// DefaultTaxonomyID is the taxonomy used when a draft does not set one.
	DefaultTaxonomyID = 1125

	dryRunShopID       = "dry-run-shop-12345"
	imageUploadTimeout = 60 * time.Second
	defaultQuantity    = 999
	defaultCurrency    = "USD"
)

// API is the set of Etsy operations used by handlers and jobs.
type API interface {
	CreateListingDraft(ctx context.Context, d Draft) (string, error)
	UpdateListingPrice(ctx context.Context, listingID string, price float64) error
	UpdateListing(ctx context.Context, listingID string, u ListingUpdate) error
	GetListing(ctx context.Context, listingID string) (*Listing, error)
	UploadListingImage(ctx context.Context, listingID, source string) error
}

// Config holds the Etsy client settings shared by every shop.
type Config struct {
	BaseURL           string
	APIKey            string // sent as x-api-key; the OAuth client id
	ShopID            string // configured default shop
	RequestsPerSecond float64
	DailyLimit        int64
	MaxRetries        int
	Timeout           time.Duration
	DryRun            bool
}

// Client implements API for one shop.
type Client struct {
	http          *provider.Client
	shopID        string
	defaultShopID string
	dryRun        bool
	images        *ImageFetcher
	log           *slog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	shopID   string
	images   *ImageFetcher
	log      *slog.Logger
	provider []provider.Option
}

// WithShopID binds the client to a shop.
func WithShopID(id string) Option {
	return func(o *clientOptions) {
		o.shopID = id
	}
}

// WithImageFetcher overrides how remote images are downloaded.
func WithImageFetcher(f *ImageFetcher) Option {
	return func(o *clientOptions) {
		o.images = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		o.log = l
	}
}

// WithProviderOptions passes options through to the underlying provider client.
func WithProviderOptions(opts ...provider.Option) Option {
	return func(o *clientOptions) {
		o.provider = append(o.provider, opts...)
	}
}

// New creates an Etsy client. Tokens are resolved per call from tokens.
func New(cfg Config, tokens provider.TokenSource, opts ...Option) *Client {
	o := &clientOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.images == nil {
		o.images = NewImageFetcher(30 * time.Second)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiterOpts := []provider.RateLimiterOption{}
	if cfg.DailyLimit > 0 {
		limiterOpts = append(limiterOpts, provider.WithDailyLimit(cfg.DailyLimit))
	}

	popts := []provider.Option{
		provider.WithTokenSource(tokens),
		provider.WithShopID(o.shopID),
		provider.WithRateLimiter(provider.NewRateLimiter(cfg.RequestsPerSecond, limiterOpts...)),
		provider.WithMaxRetries(cfg.MaxRetries),
		provider.WithTimeout(cfg.Timeout),
		provider.WithDryRun(cfg.DryRun, synthesize),
		provider.WithLogger(o.log),
	}
	if cfg.APIKey != "" {
		popts = append(popts, provider.WithHeader("x-api-key", cfg.APIKey))
	}
	popts = append(popts, o.provider...)

	return &Client{
		http:          provider.New(ProviderName, strings.TrimRight(baseURL, "/"), popts...),
		shopID:        o.shopID,
		defaultShopID: cfg.ShopID,
		dryRun:        cfg.DryRun,
		images:        o.images,
		log:           o.log,
	}
}

// ShopID returns the shop the client is bound to.
func (c *Client) ShopID() string { return c.shopID }

// DryRun reports whether the client fabricates responses.
func (c *Client) DryRun() bool { return c.dryRun }

// RateLimiter exposes the client's limiter for quota reporting.
func (c *Client) RateLimiter() *provider.RateLimiter { return c.http.Limiter() }

// synthesize answers every dry-run request with a fresh fake listing id.
func synthesize(req provider.Request) any {
	id := fmt.Sprintf("DRY-RUN-%06d", 100000+rand.IntN(900000)) //nolint:gosec // not security sensitive
	if req.Method == http.MethodGet && strings.HasPrefix(req.Path, "/listings/") {
		return map[string]any{
			"listing_id": strings.TrimPrefix(req.Path, "/listings/"),
			"state":      "draft",
		}
	}
	return map[string]any{"listing_id": id}
}
