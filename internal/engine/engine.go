// Package engine runs the background jobs that keep the catalog, the
// Etsy listings and the OAuth tokens in sync.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/donaldgifford/automerch/internal/etsy"
	"github.com/donaldgifford/automerch/internal/metrics"
	"github.com/donaldgifford/automerch/internal/notify"
	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

const (
	defaultListingBatchSize = 25

	// DefaultQuantity is stocked on products that have no quantity.
	DefaultQuantity = 999
)

// ErrUnknownJob is returned by RunJob for a name it does not know.
var ErrUnknownJob = errors.New("unknown job")

// TokenRefresher refreshes the stored OAuth tokens.
type TokenRefresher interface {
	RefreshAll(ctx context.Context, shopIDs []string) (int, error)
}

// JobResult summarizes one job run.
type JobResult struct {
	Job      string `json:"job"`
	Examined int    `json:"examined"`
	Changed  int    `json:"changed"`
	Errors   int    `json:"errors"`
	DryRun   bool   `json:"dry_run"`
}

// Message is the run log line for r.
func (r *JobResult) Message() string {
	return fmt.Sprintf("examined=%d, changed=%d, errors=%d, dry_run=%t",
		r.Examined, r.Changed, r.Errors, r.DryRun)
}

// Engine runs token refresh, price sync, inventory sync and listing jobs.
type Engine struct {
	store  store.Store
	tokens TokenRefresher
	etsy   etsy.Resolver
	notify notify.Notifier
	log    *slog.Logger

	dryRun           bool
	listingBatchSize int
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	tokens TokenRefresher,
	etsyClients etsy.Resolver,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:            s,
		tokens:           tokens,
		etsy:             etsyClients,
		notify:           notify.NewNoOpNotifier(slog.Default()),
		log:              slog.Default(),
		dryRun:           true,
		listingBatchSize: defaultListingBatchSize,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNotifier sets where failed job runs are reported.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notify = n
	}
}

// WithDryRun controls whether jobs only count proposed changes.
func WithDryRun(dryRun bool) EngineOption {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithListingBatchSize caps how many products one listing run drafts.
func WithListingBatchSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.listingBatchSize = n
		}
	}
}

// Jobs returns the names accepted by RunJob.
func Jobs() []string {
	return []string{
		domain.JobTokenRefresh,
		domain.JobPriceSync,
		domain.JobInventorySync,
		domain.JobListPending,
	}
}

// RunJob runs the job with the given name.
func (eng *Engine) RunJob(ctx context.Context, name string) (*JobResult, error) {
	switch name {
	case domain.JobTokenRefresh:
		return eng.RunTokenRefresh(ctx)
	case domain.JobPriceSync:
		return eng.RunPriceSync(ctx)
	case domain.JobInventorySync:
		return eng.RunInventorySync(ctx)
	case domain.JobListPending:
		return eng.RunListPending(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
}

// RunTokenRefresh refreshes the legacy token and every active shop's token.
// In dry run it only counts the stored tokens.
func (eng *Engine) RunTokenRefresh(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	res := &JobResult{Job: domain.JobTokenRefresh, DryRun: eng.dryRun}

	err := func() error {
		if eng.dryRun {
			tokens, err := eng.store.ListTokens(ctx, domain.ProviderEtsy)
			if err != nil {
				return fmt.Errorf("listing tokens: %w", err)
			}
			res.Examined = len(tokens)
			for i := range tokens {
				if tokens[i].RefreshToken != "" {
					res.Changed++
				}
			}
			return nil
		}

		shops, err := eng.store.ListShops(ctx, true)
		if err != nil {
			return fmt.Errorf("listing shops: %w", err)
		}
		ids := make([]string, 0, len(shops))
		for i := range shops {
			ids = append(ids, shops[i].ShopID)
		}
		res.Examined = len(ids) + 1

		n, err := eng.tokens.RefreshAll(ctx, ids)
		res.Changed = n
		if err != nil {
			errs := unjoin(err)
			res.Errors = len(errs)
			eng.log.Error("token refresh failures", "error", err)
			eng.notifyTokenFailures(ctx, errs)
		}
		return nil
	}()

	return eng.finish(ctx, res, start, err)
}

// RunPriceSync moves every price not ending in .99 up to the next .99. In
// live mode the new price is pushed to the product's Etsy listing and stored
// once the push succeeds.
func (eng *Engine) RunPriceSync(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	res := &JobResult{Job: domain.JobPriceSync, DryRun: eng.dryRun}

	err := func() error {
		products, err := eng.store.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		for i := range products {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p := &products[i]
			res.Examined++
			if p.Price == nil {
				continue
			}
			target := CharmPrice(*p.Price)
			if target == *p.Price {
				continue
			}
			if eng.dryRun {
				eng.log.Info("price change proposed", "sku", p.SKU, "from", *p.Price, "to", target)
				res.Changed++
				continue
			}
			if err := eng.applyPrice(ctx, p, target); err != nil {
				eng.log.Error("price sync failed", "sku", p.SKU, "error", err)
				res.Errors++
				continue
			}
			res.Changed++
		}
		return nil
	}()

	return eng.finish(ctx, res, start, err)
}

// applyPrice pushes price to the product's Etsy listing, if any, and stores
// it only once the push succeeded so a failed push is retried next run.
func (eng *Engine) applyPrice(ctx context.Context, p *domain.Product, price float64) error {
	if p.EtsyListingID != "" {
		shopID := ""
		if l, err := eng.store.GetListing(ctx, p.EtsyListingID); err == nil {
			shopID = l.ShopID
		}
		if err := eng.etsy.For(shopID).UpdateListingPrice(ctx, p.EtsyListingID, price); err != nil {
			return fmt.Errorf("pushing price to listing %s: %w", p.EtsyListingID, err)
		}
	}

	if err := eng.store.UpdateProductPrice(ctx, p.SKU, price); err != nil {
		return fmt.Errorf("storing price: %w", err)
	}
	return nil
}

// RunInventorySync stocks DefaultQuantity on every product without a
// quantity.
func (eng *Engine) RunInventorySync(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	res := &JobResult{Job: domain.JobInventorySync, DryRun: eng.dryRun}

	err := func() error {
		products, err := eng.store.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		for i := range products {
			p := &products[i]
			res.Examined++
			if p.Quantity != nil {
				continue
			}
			if eng.dryRun {
				res.Changed++
				continue
			}
			if err := eng.store.UpdateProductQuantity(ctx, p.SKU, DefaultQuantity); err != nil {
				eng.log.Error("inventory sync failed", "sku", p.SKU, "error", err)
				res.Errors++
				continue
			}
			res.Changed++
		}
		return nil
	}()

	return eng.finish(ctx, res, start, err)
}

// RunListPending creates Etsy drafts for products that have no listing yet,
// at most the configured batch size per run.
func (eng *Engine) RunListPending(ctx context.Context) (*JobResult, error) {
	start := time.Now()
	res := &JobResult{Job: domain.JobListPending, DryRun: eng.dryRun}

	err := func() error {
		products, err := eng.store.ListProductsWithoutListing(ctx, eng.listingBatchSize)
		if err != nil {
			return fmt.Errorf("listing pending products: %w", err)
		}

		shopID := eng.defaultShopID(ctx)
		for i := range products {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p := &products[i]
			res.Examined++
			if eng.dryRun {
				eng.log.Info("draft proposed", "sku", p.SKU, "shop_id", shopID)
				res.Changed++
				continue
			}
			if err := eng.listProduct(ctx, shopID, p); err != nil {
				eng.log.Error("listing product failed", "sku", p.SKU, "error", err)
				res.Errors++
				continue
			}
			res.Changed++
		}
		return nil
	}()

	return eng.finish(ctx, res, start, err)
}

func (eng *Engine) listProduct(ctx context.Context, shopID string, p *domain.Product) error {
	req := DraftRequestFor(p)
	req.ShopID = shopID

	out, err := etsy.CreateDraft(ctx, eng.etsy.For(shopID), req, eng.log)
	if err != nil {
		return err
	}
	if out.ShopID == "" {
		out.ShopID = shopID
	}

	if err := eng.store.UpsertListing(ctx, &domain.Listing{
		ListingID: out.ListingID,
		SKU:       p.SKU,
		ShopID:    out.ShopID,
		Title:     req.Title,
		Price:     p.Price,
		Status:    out.Status,
		EtsyURL:   out.EtsyURL,
	}); err != nil {
		return fmt.Errorf("storing listing %s: %w", out.ListingID, err)
	}
	if err := eng.store.UpdateProductListing(ctx, p.SKU, out.ListingID); err != nil {
		return fmt.Errorf("linking listing %s: %w", out.ListingID, err)
	}
	return nil
}

// DraftRequestFor builds the Etsy draft for a catalog product. The
// thumbnail, when set, becomes the first listing image.
func DraftRequestFor(p *domain.Product) etsy.DraftRequest {
	d := etsy.Draft{
		Title:       p.Name,
		Description: p.Description,
		Tags:        p.Tags,
	}
	if d.Description == "" {
		d.Description = p.Name
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.TaxonomyID != nil {
		d.TaxonomyID = *p.TaxonomyID
	}

	req := etsy.DraftRequest{Draft: d}
	if p.ThumbnailURL != "" {
		req.Images = []string{p.ThumbnailURL}
	}
	return req
}

func (eng *Engine) defaultShopID(ctx context.Context) string {
	shop, err := eng.store.GetDefaultShop(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			eng.log.Warn("default shop lookup failed", "error", err)
		}
		return ""
	}
	return shop.ShopID
}

// finish records the run log and metrics for a job run.
func (eng *Engine) finish(ctx context.Context, res *JobResult, start time.Time, runErr error) (*JobResult, error) {
	metrics.JobDuration.WithLabelValues(res.Job).Observe(time.Since(start).Seconds())

	status := domain.RunStatusOK
	msg := res.Message()
	if runErr != nil {
		status = domain.RunStatusError
		msg = fmt.Sprintf("%s, error=%v", msg, runErr)
	}
	metrics.JobRunsTotal.WithLabelValues(res.Job, status).Inc()

	if err := eng.store.InsertRunLog(ctx, &domain.RunLog{
		Job:     res.Job,
		Status:  status,
		Message: msg,
	}); err != nil {
		eng.log.Error("writing run log failed", "job", res.Job, "error", err)
	}

	eng.log.Info("job finished",
		"job", res.Job,
		"status", status,
		"examined", res.Examined,
		"changed", res.Changed,
		"errors", res.Errors,
		"dry_run", res.DryRun,
		"duration", time.Since(start),
	)

	if runErr != nil {
		eng.notifyFailure(ctx, res, runErr)
		return res, fmt.Errorf("running %s: %w", res.Job, runErr)
	}
	return res, nil
}

func (eng *Engine) notifyFailure(ctx context.Context, res *JobResult, runErr error) {
	errs := unjoin(runErr)
	summary := runErr.Error()
	if len(errs) > 1 {
		summary = fmt.Sprintf("%d errors, first: %v", len(errs), errs[0])
	}
	if len(summary) > 1000 {
		summary = summary[:1000]
	}

	ev := &notify.Event{
		Title:    fmt.Sprintf("Job %s failed", res.Job),
		Summary:  summary,
		Severity: notify.SeverityError,
		Job:      res.Job,
		Fields: map[string]string{
			"Examined": strconv.Itoa(res.Examined),
			"Changed":  strconv.Itoa(res.Changed),
			"Errors":   strconv.Itoa(res.Errors),
		},
		Time: time.Now(),
	}
	if err := eng.notify.SendEvent(ctx, ev); err != nil {
		eng.log.Warn("sending job failure notification failed", "job", res.Job, "error", err)
	}
}

func (eng *Engine) notifyTokenFailures(ctx context.Context, errs []error) {
	now := time.Now()
	events := make([]notify.Event, 0, len(errs))
	for _, err := range errs {
		events = append(events, notify.Event{
			Title:    "Etsy token refresh failed",
			Summary:  err.Error(),
			Severity: notify.SeverityWarning,
			Job:      domain.JobTokenRefresh,
			Time:     now,
		})
	}
	if err := eng.notify.SendBatch(ctx, events, domain.JobTokenRefresh); err != nil {
		eng.log.Warn("sending token refresh notification failed", "error", err)
	}
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
