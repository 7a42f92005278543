package etsy

import (
	"sync"

	"github.com/donaldgifford/automerch/internal/provider"
)

// Pool hands out one Client per shop so each shop has its own rate limiter.
type Pool struct {
	cfg    Config
	tokens provider.TokenSource
	opts   []Option

	mu      sync.Mutex
	clients map[string]*Client
}

// NewPool creates a Pool. opts apply to every client it creates.
func NewPool(cfg Config, tokens provider.TokenSource, opts ...Option) *Pool {
	return &Pool{
		cfg:     cfg,
		tokens:  tokens,
		opts:    opts,
		clients: make(map[string]*Client),
	}
}

// Client returns the client for shopID, creating it on first use. An empty
// shopID returns the client bound to no shop, which resolves the default.
func (p *Pool) Client(shopID string) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[shopID]; ok {
		return c
	}
	opts := append(append([]Option{}, p.opts...), WithShopID(shopID))
	c := New(p.cfg, p.tokens, opts...)
	p.clients[shopID] = c
	return c
}

// Limiters returns the rate limiter of every client created so far, keyed
// by shop id.
func (p *Pool) Limiters() map[string]*provider.RateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]*provider.RateLimiter, len(p.clients))
	for id, c := range p.clients {
		out[id] = c.RateLimiter()
	}
	return out
}

// DryRun reports whether clients from this pool fabricate responses.
func (p *Pool) DryRun() bool { return p.cfg.DryRun }

// For returns the client for shopID as an API.
func (p *Pool) For(shopID string) API { return p.Client(shopID) }

// Resolver returns the API client for a shop.
type Resolver interface {
	For(shopID string) API
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(shopID string) API

// For calls f(shopID).
func (f ResolverFunc) For(shopID string) API { return f(shopID) }
