// Package printful implements the Printful store API operations used by
// automerch on top of the shared provider client.
package printful

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/automerch/internal/provider"
)

const (
	// ProviderName labels Printful calls in logs and metrics.
	ProviderName = "printful"

	// DefaultBaseURL is the Printful API root.
	DefaultBaseURL = "https://api.printful.com"

	defaultTimeout = 60 * time.Second
)

// API is the set of Printful operations used by handlers and jobs.
type API interface {
	CreateProduct(ctx context.Context, in ProductInput) (*SyncResult, error)
	CreateProductWithVariants(ctx context.Context, name, thumbnail, sku string, variants []VariantInput) ([]VariantMapping, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	GetProductVariants(ctx context.Context, productID string) ([]SyncVariant, error)
	GetCatalogVariants(ctx context.Context, catalogProductID int) ([]CatalogVariant, error)
	CreateMockup(ctx context.Context, req MockupRequest) (*Mockup, error)
	GetStoreInfo(ctx context.Context) (*StoreInfo, error)
	GetOrders(ctx context.Context, limit, offset int) ([]Order, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// Config holds the Printful client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	MaxRetries        int
	Timeout           time.Duration
	DryRun            bool
}

// Client implements API.
type Client struct {
	http   *provider.Client
	apiKey string
	dryRun bool
	log    *slog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	log      *slog.Logger
	provider []provider.Option
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

// New creates a Printful client authenticated with the store API key.
func New(cfg Config, opts ...Option) *Client {
	o := &clientOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	popts := []provider.Option{
		provider.WithStaticToken(cfg.APIKey),
		provider.WithRateLimiter(provider.NewRateLimiter(cfg.RequestsPerSecond)),
		provider.WithMaxRetries(cfg.MaxRetries),
		provider.WithTimeout(timeout),
		provider.WithDryRun(cfg.DryRun, synthesize),
		provider.WithLogger(o.log),
	}
	popts = append(popts, o.provider...)

	return &Client{
		http:   provider.New(ProviderName, strings.TrimRight(baseURL, "/"), popts...),
		apiKey: cfg.APIKey,
		dryRun: cfg.DryRun,
		log:    o.log,
	}
}

// DryRun reports whether the client fabricates responses.
func (c *Client) DryRun() bool { return c.dryRun }

// RateLimiter exposes the client's limiter for quota reporting.
func (c *Client) RateLimiter() *provider.RateLimiter { return c.http.Limiter() }

// envelope is the Printful response wrapper.
type envelope[T any] struct {
	Code   int `json:"code"`
	Result T   `json:"result"`
}

func do[T any](ctx context.Context, c *Client, req provider.Request) (T, error) {
	var zero T
	if !c.dryRun && c.apiKey == "" {
		return zero, fmt.Errorf("printful api key not set: %w", provider.ErrConfiguration)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := provider.DecodeJSON(resp, &env); err != nil {
		return zero, err
	}
	return env.Result, nil
}

// ProductInput describes a single-variant sync product.
type ProductInput struct {
	Name        string
	Thumbnail   string
	SKU         string
	VariantID   int // Printful catalog variant, e.g. 4011 for an 11oz mug
	RetailPrice float64
	DesignURL   string
}

// File is a print or preview file attached to a sync variant.
type File struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// VariantInput describes one variant of a multi-variant sync product.
type VariantInput struct {
	SKU         string
	VariantID   int
	RetailPrice float64
	Files       []File
}

// VariantMapping links a caller SKU to the created sync variant id.
type VariantMapping struct {
	SKU       string `json:"sku"`
	VariantID string `json:"variant_id"`
}

// SyncResult is the outcome of CreateProduct.
type SyncResult struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VariantID   string `json:"variant_id"`
}

// Product is a Printful sync product.
type Product struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ExternalID string        `json:"external_id,omitempty"`
	Thumbnail  string        `json:"thumbnail_url,omitempty"`
	Variants   []SyncVariant `json:"variants"`
}

// SyncVariant is a variant of a sync product.
type SyncVariant struct {
	ID          provider.ID `json:"id"`
	ExternalID  string      `json:"external_id,omitempty"`
	SKU         string      `json:"sku,omitempty"`
	Name        string      `json:"name,omitempty"`
	VariantID   int         `json:"variant_id,omitempty"`
	RetailPrice string      `json:"retail_price,omitempty"`
}

// CatalogVariant is an orderable catalog variant.
type CatalogVariant struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// MockupRequest asks the mockup generator for a product image.
type MockupRequest struct {
	SyncProductID string
	SyncVariantID string // optional
	Format        string // "jpg" or "png", default "jpg"
	Width         int    // default 1000
}

// Mockup is a mockup generation task or result.
type Mockup struct {
	TaskKey   string `json:"task_key,omitempty"`
	MockupURL string `json:"mockup_url,omitempty"`
	Placement string `json:"placement"`
}

// StoreInfo describes the Printful store.
type StoreInfo struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Order is a Printful order summary.
type Order struct {
	ID         provider.ID `json:"id"`
	ExternalID string      `json:"external_id,omitempty"`
	Status     string      `json:"status"`
	Created    int64       `json:"created,omitempty"`
}

type syncProductPayload struct {
	Name       string `json:"name"`
	Thumbnail  string `json:"thumbnail"`
	ExternalID string `json:"external_id"`
}

type syncVariantPayload struct {
	RetailPrice string `json:"retail_price"`
	SKU         string `json:"sku"`
	VariantID   int    `json:"variant_id"`
	Files       []File `json:"files"`
}

type createProductPayload struct {
	SyncProduct  syncProductPayload   `json:"sync_product"`
	SyncVariants []syncVariantPayload `json:"sync_variants"`
}

type syncProductResult struct {
	SyncProduct struct {
		ID           provider.ID `json:"id"`
		Name         string      `json:"name"`
		ExternalID   string      `json:"external_id"`
		ThumbnailURL string      `json:"thumbnail_url"`
	} `json:"sync_product"`
	SyncVariant  SyncVariant   `json:"sync_variant"`
	SyncVariants []SyncVariant `json:"sync_variants"`
}

// CreateProduct creates a sync product with one variant. The variant's
// preview file is DesignURL, or Thumbnail when no design is given.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*SyncResult, error) {
	files := []File{}
	switch {
	case in.DesignURL != "":
		files = append(files, File{Type: "preview", URL: in.DesignURL})
	case in.Thumbnail != "":
		files = append(files, File{Type: "preview", URL: in.Thumbnail})
	}

	payload := createProductPayload{
		SyncProduct: syncProductPayload{Name: in.Name, Thumbnail: in.Thumbnail, ExternalID: in.SKU},
		SyncVariants: []syncVariantPayload{{
			RetailPrice: formatPrice(in.RetailPrice),
			SKU:         in.SKU,
			VariantID:   in.VariantID,
			Files:       files,
		}},
	}

	res, err := do[syncProductResult](ctx, c, provider.Request{
		Method: http.MethodPost,
		Path:   "/store/products",
		JSON:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("creating printful product %s: %w", in.SKU, err)
	}

	out := &SyncResult{
		ProductID:   res.SyncProduct.ID.String(),
		ProductName: res.SyncProduct.Name,
		VariantID:   res.SyncVariant.ID.String(),
	}
	if out.VariantID == "" && len(res.SyncVariants) > 0 {
		out.VariantID = res.SyncVariants[0].ID.String()
	}
	return out, nil
}

// CreateProductWithVariants creates a sync product with several variants and
// maps the created sync variant ids back to the caller's SKUs by position.
// When the provider returns fewer variants, the catalog variant id is used.
func (c *Client) CreateProductWithVariants(
	ctx context.Context,
	name, thumbnail, sku string,
	variants []VariantInput,
) ([]VariantMapping, error) {
	payload := createProductPayload{
		SyncProduct:  syncProductPayload{Name: name, Thumbnail: thumbnail, ExternalID: sku},
		SyncVariants: make([]syncVariantPayload, 0, len(variants)),
	}
	for _, v := range variants {
		files := v.Files
		if files == nil {
			files = []File{}
		}
		payload.SyncVariants = append(payload.SyncVariants, syncVariantPayload{
			RetailPrice: formatPrice(v.RetailPrice),
			SKU:         v.SKU,
			VariantID:   v.VariantID,
			Files:       files,
		})
	}

	res, err := do[syncProductResult](ctx, c, provider.Request{
		Method: http.MethodPost,
		Path:   "/store/products",
		JSON:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("creating printful product %s: %w", sku, err)
	}

	out := make([]VariantMapping, 0, len(variants))
	for i, v := range variants {
		id := strconv.Itoa(v.VariantID)
		if i < len(res.SyncVariants) && res.SyncVariants[i].ID != "" {
			id = res.SyncVariants[i].ID.String()
		}
		out = append(out, VariantMapping{SKU: v.SKU, VariantID: id})
	}
	return out, nil
}

// GetProduct fetches a sync product with its variants.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	res, err := do[syncProductResult](ctx, c, provider.Request{
		Method: http.MethodGet,
		Path:   "/store/products/" + productID,
	})
	if err != nil {
		return nil, fmt.Errorf("getting printful product %s: %w", productID, err)
	}
	return &Product{
		ID:         res.SyncProduct.ID.String(),
		Name:       res.SyncProduct.Name,
		ExternalID: res.SyncProduct.ExternalID,
		Thumbnail:  res.SyncProduct.ThumbnailURL,
		Variants:   res.SyncVariants,
	}, nil
}

// GetProductVariants returns the variants of a sync product.
func (c *Client) GetProductVariants(ctx context.Context, productID string) ([]SyncVariant, error) {
	p, err := c.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return p.Variants, nil
}

type catalogProductResult struct {
	Variants []CatalogVariant `json:"variants"`
}

// GetCatalogVariants lists the variants of a catalog product template.
func (c *Client) GetCatalogVariants(ctx context.Context, catalogProductID int) ([]CatalogVariant, error) {
	res, err := do[catalogProductResult](ctx, c, provider.Request{
		Method: http.MethodGet,
		Path:   "/catalog/products/" + strconv.Itoa(catalogProductID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting catalog product %d: %w", catalogProductID, err)
	}
	return res.Variants, nil
}

// CreateMockup starts a mockup generation task.
func (c *Client) CreateMockup(ctx context.Context, req MockupRequest) (*Mockup, error) {
	path := "/mockup-generator/create-task/" + req.SyncProductID
	if req.SyncVariantID != "" {
		path += "/" + req.SyncVariantID
	}
	format := req.Format
	if format == "" {
		format = "jpg"
	}
	width := req.Width
	if width <= 0 {
		width = 1000
	}

	res, err := do[Mockup](ctx, c, provider.Request{
		Method: http.MethodPost,
		Path:   path,
		JSON:   map[string]any{"format": format, "width": width},
	})
	if err != nil {
		return nil, fmt.Errorf("creating mockup for product %s: %w", req.SyncProductID, err)
	}
	if res.Placement == "" {
		res.Placement = "front"
	}
	return &res, nil
}

// GetStoreInfo returns the store's name, currency and contact details.
func (c *Client) GetStoreInfo(ctx context.Context) (*StoreInfo, error) {
	res, err := do[StoreInfo](ctx, c, provider.Request{
		Method: http.MethodGet,
		Path:   "/store",
	})
	if err != nil {
		return nil, fmt.Errorf("getting printful store: %w", err)
	}
	return &res, nil
}

// GetOrders lists store orders.
func (c *Client) GetOrders(ctx context.Context, limit, offset int) ([]Order, error) {
	if limit <= 0 {
		limit = 10
	}
	res, err := do[[]Order](ctx, c, provider.Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Query: url.Values{
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing printful orders: %w", err)
	}
	if res == nil {
		res = []Order{}
	}
	return res, nil
}

// DeleteProduct removes a sync product.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := do[map[string]any](ctx, c, provider.Request{
		Method: http.MethodDelete,
		Path:   "/store/products/" + productID,
	}); err != nil {
		return fmt.Errorf("deleting printful product %s: %w", productID, err)
	}
	return nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
