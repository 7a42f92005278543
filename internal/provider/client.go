// Package provider implements the authenticated, rate-limited, retrying HTTP
// client shared by the Etsy and Printful integrations.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/automerch/internal/metrics"
)

const (
	instrumentationName = "github.com/donaldgifford/automerch/internal/provider"

	// DryRunToken is the bearer token substituted when no token is available in dry-run mode.
	DryRunToken = "dry-run-token"

	defaultMaxRetries        = 3
	defaultTimeout           = 30 * time.Second
	defaultRetryAfter        = 10 * time.Second
	defaultRequestsPerSecond = 5
)

// TokenSource resolves a bearer token for an optional shop.
type TokenSource interface {
	AccessToken(ctx context.Context, shopID string) (string, error)
}

// Synthesizer builds the dry-run payload returned for a request.
type Synthesizer func(req Request) any

// File is a multipart file part.
type File struct {
	Field       string // form field, default "image"
	Name        string
	ContentType string // default "image/jpeg"
	Data        []byte
}

// Request describes one logical provider call.
type Request struct {
	Method string
	Path   string // appended to the client base URL
	Query  url.Values
	JSON   any   // encoded as the JSON body when non-nil
	File   *File // sent as multipart/form-data when non-nil

	// Timeout overrides the per-attempt timeout when positive.
	Timeout time.Duration
	// MaxRetries overrides the attempt budget when positive.
	MaxRetries int
}

// Client performs authenticated provider calls with rate limiting, retries
// and dry-run short-circuiting.
type Client struct {
	name        string
	baseURL     string
	http        *http.Client
	limiter     *RateLimiter
	tokens      TokenSource
	staticToken string
	shopID      string
	headers     http.Header
	dryRun      bool
	synth       Synthesizer
	maxRetries  int
	timeout     time.Duration
	sleep       func(context.Context, time.Duration) error
	nowFunc     func() time.Time
	log         *slog.Logger
	tracer      trace.Tracer
	duration    otelmetric.Float64Histogram
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimiter injects the rate limiter every attempt waits on.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = r
	}
}

// WithTokenSource sets the source bearer tokens are resolved from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithStaticToken sets a fixed bearer token, used when no TokenSource is set.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.staticToken = token
	}
}

// WithShopID binds the client to a shop for token resolution.
func WithShopID(shopID string) Option {
	return func(c *Client) {
		c.shopID = shopID
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithDryRun enables dry-run mode. Requests are answered by synth without
// touching the network.
func WithDryRun(enabled bool, synth Synthesizer) Option {
	return func(c *Client) {
		c.dryRun = enabled
		c.synth = synth
	}
}

// WithMaxRetries sets the total attempt budget per call.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSleepFunc overrides how the client waits between attempts, for testing.
func WithSleepFunc(f func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = f
	}
}

// WithNowFunc overrides the clock used to evaluate Retry-After dates.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client for the named provider.
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    baseURL,
		http:       &http.Client{},
		limiter:    NewRateLimiter(defaultRequestsPerSecond),
		headers:    http.Header{},
		maxRetries: defaultMaxRetries,
		timeout:    defaultTimeout,
		sleep:      sleepContext,
		nowFunc:    time.Now,
		log:        slog.Default(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	hist, err := otel.Meter(instrumentationName).Float64Histogram(
		"automerch.provider.request.duration",
		otelmetric.WithUnit("s"),
		otelmetric.WithDescription("Duration of logical provider calls including retries."),
	)
	if err == nil {
		c.duration = hist
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return c.name }

// ShopID returns the shop the client is bound to, if any.
func (c *Client) ShopID() string { return c.shopID }

// DryRun reports whether the client is in dry-run mode.
func (c *Client) DryRun() bool { return c.dryRun }

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *RateLimiter { return c.limiter }

// Do executes req. 429 responses are retried after the Retry-After delay,
// 5xx and network errors after attempt*2 seconds, and other 4xx responses
// fail immediately. All attempts, including 429s, count toward the budget.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, c.name+" "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider", c.name),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.Bool("dry_run", c.dryRun),
		),
	)
	defer span.End()
	defer func() {
		elapsed := time.Since(start).Seconds()
		metrics.ProviderRequestDuration.WithLabelValues(c.name).Observe(elapsed)
		if c.duration != nil {
			c.duration.Record(ctx, elapsed, otelmetric.WithAttributes(attribute.String("provider", c.name)))
		}
	}()

	if c.dryRun {
		return c.synthesize(req)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))
	return resp, nil
}

func (c *Client) synthesize(req Request) (Response, error) {
	metrics.ProviderDryRunTotal.WithLabelValues(c.name).Inc()
	c.log.Info("dry run, skipping provider call",
		"provider", c.name,
		"method", req.Method,
		"path", req.Path,
	)

	var payload any = map[string]any{}
	if c.synth != nil {
		payload = c.synth(req)
	}
	return NewSyntheticResponse(payload)
}

func (c *Client) do(ctx context.Context, req Request) (Response, error) {
	token, err := c.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	maxRetries := c.maxRetries
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	}
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	perr := &ProviderError{Provider: c.name, Method: req.Method, URL: target}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.wait(ctx, perr); err != nil {
			return nil, err
		}

		perr.Attempts = attempt
		resp, err := c.attempt(ctx, req.Method, target, token, body, contentType, timeout)

		var delay time.Duration
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s request canceled: %w", c.name, ctx.Err())
			}
			metrics.ProviderAttemptsTotal.WithLabelValues(c.name, "network_error").Inc()
			perr.Kind, perr.Err, perr.StatusCode, perr.Body = KindTransient, err, 0, ""
			delay = backoff(attempt)

		case resp.status == http.StatusTooManyRequests:
			metrics.ProviderAttemptsTotal.WithLabelValues(c.name, "rate_limited").Inc()
			perr.Kind, perr.Err, perr.StatusCode, perr.Body = KindRateLimited, nil, resp.status, truncateBody(resp.body)
			delay = retryAfter(resp.header.Get("Retry-After"), c.nowFunc())

		case resp.status >= http.StatusInternalServerError:
			metrics.ProviderAttemptsTotal.WithLabelValues(c.name, "server_error").Inc()
			perr.Kind, perr.Err, perr.StatusCode, perr.Body = KindTransient, nil, resp.status, truncateBody(resp.body)
			delay = backoff(attempt)

		case resp.status >= http.StatusBadRequest:
			metrics.ProviderAttemptsTotal.WithLabelValues(c.name, "client_error").Inc()
			perr.Kind, perr.Err, perr.StatusCode, perr.Body = KindFatal, nil, resp.status, truncateBody(resp.body)
			c.log.Error("provider rejected request",
				"provider", c.name,
				"method", req.Method,
				"url", target,
				"status", resp.status,
				"body", perr.Body,
			)
			return nil, perr

		default:
			metrics.ProviderAttemptsTotal.WithLabelValues(c.name, "success").Inc()
			return resp, nil
		}

		if attempt == maxRetries {
			break
		}

		reason := retryReason(perr)
		metrics.ProviderRetriesTotal.WithLabelValues(c.name, reason).Inc()
		c.log.Warn("retrying provider request",
			"provider", c.name,
			"method", req.Method,
			"url", target,
			"attempt", attempt,
			"max_attempts", maxRetries,
			"reason", reason,
			"status", perr.StatusCode,
			"delay", delay,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%s retry wait: %w", c.name, err)
		}
	}

	c.log.Error("provider request failed",
		"provider", c.name,
		"method", req.Method,
		"url", target,
		"attempts", perr.Attempts,
		"kind", perr.Kind.String(),
		"status", perr.StatusCode,
	)
	return nil, perr
}

func (c *Client) resolveToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		if c.staticToken == "" {
			return "", fmt.Errorf("%s: %w", c.name, ErrAuthentication)
		}
		return c.staticToken, nil
	}

	token, err := c.tokens.AccessToken(ctx, c.shopID)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", c.name, ErrAuthentication, err)
	}
	if token == "" {
		return "", fmt.Errorf("%s: %w", c.name, ErrAuthentication)
	}
	return token, nil
}

func (c *Client) wait(ctx context.Context, perr *ProviderError) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			perr.Kind, perr.Err = KindRateLimited, err
			return perr
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}
	metrics.RateLimitDailyUsage.WithLabelValues(c.name).Set(float64(c.limiter.DailyCount()))
	return nil
}

func (c *Client) attempt(
	ctx context.Context,
	method, target, token string,
	body []byte,
	contentType string,
	timeout time.Duration,
) (*LiveResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.Debug("provider attempt",
		"provider", c.name,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
	)

	return &LiveResponse{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.File != nil:
		return encodeMultipart(req.File)
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}
		return b, "application/json", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(f *File) ([]byte, string, error) {
	field := f.Field
	if field == "" {
		field = "image"
	}
	ct := f.ContentType
	if ct == "" {
		ct = "image/jpeg"
	}
	name := f.Name
	if name == "" {
		name = "image.jpg"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("writing multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// backoff returns the delay after a failed attempt (1-based): 2s, 4s, 6s...
func backoff(attempt int) time.Duration {
	return time.Duration(attempt*2) * time.Second
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Missing or unparseable values yield 10 seconds.
func retryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0)
	}
	return defaultRetryAfter
}

func retryReason(perr *ProviderError) string {
	switch {
	case perr.Kind == KindRateLimited:
		return "rate_limited"
	case perr.StatusCode == 0:
		return "network"
	default:
		return "server_error"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
