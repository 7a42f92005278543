package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/automerch/internal/api/handlers"
	mw "github.com/donaldgifford/automerch/internal/api/middleware"
	"github.com/donaldgifford/automerch/internal/config"
	"github.com/donaldgifford/automerch/internal/engine"
	"github.com/donaldgifford/automerch/internal/etsy"
	"github.com/donaldgifford/automerch/internal/notify"
	"github.com/donaldgifford/automerch/internal/oauth"
	"github.com/donaldgifford/automerch/internal/printful"
	"github.com/donaldgifford/automerch/internal/provider"
	"github.com/donaldgifford/automerch/internal/store"
)

// app holds the wired server and the resources it owns.
type app struct {
	echo      *echo.Echo
	store     store.Store
	engine    *engine.Engine
	scheduler *engine.Scheduler
	close     func()
}

// openStore connects to the configured datastore. The returned func closes it.
func openStore(ctx context.Context, db *config.DatabaseConfig) (store.Store, func(), error) {
	switch db.Driver {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, db.DSN(), db.PoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := store.NewSQLiteStore(ctx, db.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// newApp wires every component from cfg. The store is migrated before use.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	s, closeStore, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	dryRun := cfg.IsDryRun()

	oauthMgr := oauth.NewManager(oauth.Config{
		ClientID:            cfg.Etsy.ClientID,
		ClientSecret:        cfg.Etsy.ClientSecret,
		RedirectURI:         cfg.Etsy.RedirectURI,
		Scopes:              cfg.Etsy.Scopes,
		AuthURL:             cfg.Etsy.AuthURL,
		TokenURL:            cfg.Etsy.TokenURL,
		APIBaseURL:          cfg.Etsy.APIURL,
		FallbackAccessToken: cfg.Etsy.FallbackAccessToken,
	}, s, oauth.WithLogger(log))

	pool := etsy.NewPool(etsy.Config{
		BaseURL:           cfg.Etsy.APIURL,
		APIKey:            cfg.Etsy.ClientID,
		ShopID:            cfg.Etsy.ShopID,
		RequestsPerSecond: cfg.Etsy.RateLimit.PerSecond,
		DailyLimit:        cfg.Etsy.RateLimit.DailyLimit,
		MaxRetries:        cfg.Etsy.MaxRetries,
		Timeout:           cfg.Etsy.Timeout,
		DryRun:            dryRun,
	}, oauthMgr,
		etsy.WithImageFetcher(etsy.NewImageFetcher(cfg.Images.DownloadTimeout)),
		etsy.WithLogger(log),
	)

	pf := printful.New(printful.Config{
		BaseURL:           cfg.Printful.BaseURL,
		APIKey:            cfg.Printful.APIKey,
		RequestsPerSecond: cfg.Printful.RateLimit.PerSecond,
		MaxRetries:        cfg.Printful.MaxRetries,
		Timeout:           cfg.Printful.Timeout,
		DryRun:            dryRun,
	}, printful.WithLogger(log))

	eng := engine.NewEngine(s, oauthMgr, pool,
		engine.WithLogger(log),
		engine.WithDryRun(dryRun),
		engine.WithListingBatchSize(cfg.Schedule.ListingBatchSize),
		engine.WithNotifier(newNotifier(&cfg.Notifications, log)),
	)

	a := &app{store: s, engine: eng, close: closeStore}

	var next handlers.NextRunner
	if cfg.Schedule.Enabled {
		sched, err := engine.NewScheduler(eng, engine.Schedule{
			TokenRefresh:  cfg.Schedule.TokenRefreshInterval,
			PriceSync:     cfg.Schedule.PriceSyncInterval,
			InventorySync: cfg.Schedule.InventorySyncInterval,
			Listing:       cfg.Schedule.ListingInterval,
		}, log)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("creating scheduler: %w", err)
		}
		a.scheduler = sched
		next = sched
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(mw.Recovery(log), mw.RequestLog(log), mw.Metrics())

	health := handlers.NewHealthHandler(s, dryRun)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("automerch API", Version))

	handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(oauthMgr, oauth.NewStateStore(), s, log))
	handlers.RegisterShopRoutes(api, handlers.NewShopsHandler(s))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(s, pf, log))
	handlers.RegisterDraftRoutes(api, handlers.NewDraftsHandler(s, pool, log))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(s, pool, log))
	handlers.RegisterPrintfulRoutes(api, handlers.NewPrintfulHandler(pf))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(eng, s, next))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(func() map[string]*provider.RateLimiter {
		return quotaLimiters(pf, pool)
	}))

	a.echo = e
	return a, nil
}

// quotaLimiters names each provider client's limiter for the quota endpoint.
func quotaLimiters(pf *printful.Client, pool *etsy.Pool) map[string]*provider.RateLimiter {
	out := map[string]*provider.RateLimiter{"printful": pf.RateLimiter()}
	for shopID, l := range pool.Limiters() {
		name := "etsy"
		if shopID != "" {
			name += ":" + shopID
		}
		out[name] = l
	}
	return out
}

// start runs the scheduler, if any, and the HTTP server until ctx is done.
func (a *app) start(ctx context.Context, addr string, log *slog.Logger) error {
	if a.scheduler != nil {
		a.scheduler.Start()
		a.scheduler.SyncNextRunTimestamps()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// shutdown stops the server, waits for running jobs, and closes the store.
func (a *app) shutdown(ctx context.Context) error {
	err := a.echo.Shutdown(ctx)
	if a.scheduler != nil {
		select {
		case <-a.scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}
	a.close()
	if err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func newNotifier(cfg *config.NotificationsConfig, log *slog.Logger) notify.Notifier {
	if cfg.Discord.Enabled {
		log.Info("discord notifications enabled")
		return notify.NewDiscordNotifier(cfg.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}
