// Package oauth manages the Etsy OAuth token lifecycle: authorization URL,
// code exchange, refresh and per-shop token resolution.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/donaldgifford/automerch/internal/metrics"
	"github.com/donaldgifford/automerch/internal/provider"
	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

const (
	tokenTimeout     = 30 * time.Second
	discoveryTimeout = 10 * time.Second
)

// Config holds the Etsy OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string

	// FallbackAccessToken is returned when no stored token exists.
	FallbackAccessToken string
}

// TokenStore is the subset of store.Store the manager needs.
type TokenStore interface {
	GetToken(ctx context.Context, provider, shopID string) (*domain.Token, error)
	SaveToken(ctx context.Context, t *domain.Token, shop *domain.Shop) error
	GetDefaultShop(ctx context.Context) (*domain.Shop, error)
}

// RefreshResult reports the outcome of Refresh. Token is the current token
// (refreshed or original) and is nil only when no token exists. Failure is
// nil when Refreshed is true.
type RefreshResult struct {
	Token     *domain.Token
	Refreshed bool
	Failure   error
}

// Manager owns the Etsy token lifecycle. It is the only writer of tokens.
type Manager struct {
	cfg         Config
	oauth       *oauth2.Config
	store       TokenStore
	tokenClient *http.Client
	apiClient   *http.Client
	nowFunc     func() time.Time
	log         *slog.Logger

	// serializes refreshes within this process
	mu sync.Mutex
}

// Option configures the Manager.
type Option func(*Manager)

// WithHTTPClient overrides the HTTP client used for the token endpoint and
// shop discovery.
func WithHTTPClient(hc *http.Client) Option {
	return func(m *Manager) {
		m.tokenClient = hc
		m.apiClient = hc
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(m *Manager) {
		m.nowFunc = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager creates a token manager backed by the given store.
func NewManager(cfg Config, s TokenStore, opts ...Option) *Manager {
	m := &Manager{
		cfg:         cfg,
		store:       s,
		tokenClient: &http.Client{Timeout: tokenTimeout},
		apiClient:   &http.Client{Timeout: discoveryTimeout},
		nowFunc:     time.Now,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	// Etsy expects client_id in the form body as well as basic auth.
	m.tokenClient = &http.Client{
		Timeout: m.tokenClient.Timeout,
		Transport: &basicAuthTransport{
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			base:         m.tokenClient.Transport,
		},
	}

	m.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return m
}

// AuthorizationURL returns the provider consent URL carrying state and the
// S256 PKCE challenge derived from verifier.
func (m *Manager) AuthorizationURL(state, verifier string) (string, error) {
	if m.cfg.ClientID == "" {
		return "", fmt.Errorf("etsy client id not set: %w", provider.ErrConfiguration)
	}
	if verifier == "" {
		return "", fmt.Errorf("pkce code verifier not set: %w", provider.ErrConfiguration)
	}
	return m.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// Exchange trades an authorization code for a token and stores it. verifier
// is the PKCE code verifier issued with the flow's state. When shopID is
// empty the shop is discovered with the new token; discovery failures are
// logged and the token is stored as the legacy token.
func (m *Manager) Exchange(ctx context.Context, code, verifier, shopID string) (*domain.Token, error) {
	if err := m.checkCredentials(); err != nil {
		return nil, err
	}
	if verifier == "" {
		return nil, fmt.Errorf("pkce code verifier not set: %w", provider.ErrConfiguration)
	}

	tok, err := m.oauth.Exchange(m.tokenContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		metrics.TokenExchangesTotal.WithLabelValues("failed").Inc()
		return nil, exchangeError("exchanging authorization code", err)
	}

	var shopName string
	if shopID == "" {
		shopID, shopName, err = m.discoverShop(ctx, tok.AccessToken)
		if err != nil {
			m.log.Warn("shop discovery failed, storing token without shop", "error", err)
		}
	}

	t := &domain.Token{
		Provider:     domain.ProviderEtsy,
		ShopID:       shopID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry.UTC()
		t.ExpiresAt = &exp
	}

	var shop *domain.Shop
	if shopID != "" {
		shop = &domain.Shop{
			ShopID:   shopID,
			ShopName: shopName,
			ShopURL:  domain.ShopURLFor(shopID),
		}
	}

	if err := m.store.SaveToken(ctx, t, shop); err != nil {
		metrics.TokenExchangesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("saving token: %w", err)
	}

	metrics.TokenExchangesTotal.WithLabelValues("success").Inc()
	m.log.Info("etsy token stored", "shop_id", shopID, "expires_at", t.ExpiresAt)
	return t, nil
}

// Refresh renews the token for shopID. An empty shopID selects the legacy
// token, then the default shop's token.
func (m *Manager) Refresh(ctx context.Context, shopID string) RefreshResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, err := m.lookupForRefresh(ctx, shopID)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("skipped").Inc()
		return RefreshResult{Failure: err}
	}
	if tok.RefreshToken == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("skipped").Inc()
		return RefreshResult{Token: tok, Failure: ErrNoRefreshToken}
	}
	if err := m.checkCredentials(); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("skipped").Inc()
		return RefreshResult{Token: tok, Failure: err}
	}

	src := m.oauth.TokenSource(m.tokenContext(ctx), &oauth2.Token{RefreshToken: tok.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
		m.log.Warn("token refresh failed", "shop_id", tok.ShopID, "error", err)
		return RefreshResult{Token: tok, Failure: exchangeError("refreshing token", err)}
	}

	updated := *tok
	updated.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		updated.RefreshToken = fresh.RefreshToken
	}
	if !fresh.Expiry.IsZero() {
		exp := fresh.Expiry.UTC()
		updated.ExpiresAt = &exp
	}

	if err := m.store.SaveToken(ctx, &updated, nil); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
		return RefreshResult{Token: tok, Failure: fmt.Errorf("saving refreshed token: %w", err)}
	}

	metrics.TokenRefreshesTotal.WithLabelValues("refreshed").Inc()
	m.log.Info("etsy token refreshed", "shop_id", updated.ShopID, "expires_at", updated.ExpiresAt)
	return RefreshResult{Token: &updated, Refreshed: true}
}

// AccessToken resolves a usable access token. Precedence: the explicit shop,
// then the default shop, then the legacy token, then the configured fallback.
// Expired tokens are refreshed first; if that fails the stale token is
// returned. Implements provider.TokenSource.
func (m *Manager) AccessToken(ctx context.Context, shopID string) (string, error) {
	tok, err := m.lookupForAccess(ctx, shopID)
	if err != nil && !errors.Is(err, ErrNoToken) {
		return "", err
	}

	if tok != nil && tok.Expired(m.nowFunc()) {
		res := m.Refresh(ctx, tok.ShopID)
		if res.Refreshed {
			tok = res.Token
		} else {
			m.log.Warn("using stale etsy token", "shop_id", tok.ShopID, "error", res.Failure)
		}
	}

	if tok != nil && tok.AccessToken != "" {
		return tok.AccessToken, nil
	}
	if m.cfg.FallbackAccessToken != "" {
		return m.cfg.FallbackAccessToken, nil
	}
	return "", ErrNoToken
}

// RefreshAll refreshes the legacy token and the token of every given shop.
// It returns the number of tokens refreshed and the failures encountered;
// shops without a token or refresh token are skipped silently.
func (m *Manager) RefreshAll(ctx context.Context, shopIDs []string) (int, error) {
	var (
		refreshed int
		errs      []error
	)
	for _, id := range append([]string{""}, shopIDs...) {
		var res RefreshResult
		if id == "" {
			res = m.refreshLegacy(ctx)
		} else {
			res = m.Refresh(ctx, id)
		}
		switch {
		case res.Refreshed:
			refreshed++
		case errors.Is(res.Failure, ErrNoToken), errors.Is(res.Failure, ErrNoRefreshToken):
		default:
			errs = append(errs, fmt.Errorf("shop %q: %w", id, res.Failure))
		}
	}
	return refreshed, errors.Join(errs...)
}

func (m *Manager) refreshLegacy(ctx context.Context) RefreshResult {
	if _, err := m.store.GetToken(ctx, domain.ProviderEtsy, ""); err != nil {
		return RefreshResult{Failure: ErrNoToken}
	}
	return m.Refresh(ctx, "")
}

func (m *Manager) lookupForRefresh(ctx context.Context, shopID string) (*domain.Token, error) {
	if shopID != "" {
		return m.getToken(ctx, shopID)
	}
	tok, err := m.getToken(ctx, "")
	if !errors.Is(err, ErrNoToken) {
		return tok, err
	}
	return m.defaultShopToken(ctx)
}

func (m *Manager) lookupForAccess(ctx context.Context, shopID string) (*domain.Token, error) {
	if shopID != "" {
		return m.getToken(ctx, shopID)
	}
	tok, err := m.defaultShopToken(ctx)
	if !errors.Is(err, ErrNoToken) {
		return tok, err
	}
	return m.getToken(ctx, "")
}

func (m *Manager) defaultShopToken(ctx context.Context) (*domain.Token, error) {
	shop, err := m.store.GetDefaultShop(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("getting default shop: %w", err)
	}
	return m.getToken(ctx, shop.ShopID)
}

func (m *Manager) getToken(ctx context.Context, shopID string) (*domain.Token, error) {
	tok, err := m.store.GetToken(ctx, domain.ProviderEtsy, shopID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return tok, nil
}

func (m *Manager) checkCredentials() error {
	if m.cfg.ClientID == "" || m.cfg.ClientSecret == "" {
		return fmt.Errorf("etsy client credentials not set: %w", provider.ErrConfiguration)
	}
	return nil
}

func (m *Manager) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.tokenClient)
}

type shopsResponse struct {
	Results []struct {
		ShopID   json.Number `json:"shop_id"`
		ShopName string      `json:"shop_name"`
	} `json:"results"`
}

// discoverShop looks up the first shop visible to accessToken.
func (m *Manager) discoverShop(ctx context.Context, accessToken string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(m.cfg.APIBaseURL, "/")+"/shops", http.NoBody)
	if err != nil {
		return "", "", fmt.Errorf("creating shops request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("x-api-key", m.cfg.ClientID)

	resp, err := m.apiClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("executing shops request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading shops response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("shops request failed (status %d): %s", resp.StatusCode, body)
	}

	var sr shopsResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", "", fmt.Errorf("parsing shops response: %w", err)
	}
	if len(sr.Results) == 0 {
		return "", "", errors.New("no shops visible to token")
	}
	return sr.Results[0].ShopID.String(), sr.Results[0].ShopName, nil
}

func exchangeError(op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &TokenExchangeError{StatusCode: re.Response.StatusCode, Body: provider.TruncateUTF8(re.Body, 500)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// basicAuthTransport adds client credentials as HTTP basic auth.
type basicAuthTransport struct {
	clientID     string
	clientSecret string
	base         http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.clientID, t.clientSecret)
	return base.RoundTrip(r)
}
