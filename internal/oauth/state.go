package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultStateTTL = 10 * time.Minute

// StateStore issues single-use anti-CSRF state nonces for the authorization
// redirect, each paired with the PKCE code verifier of that flow. Nonces
// live in process memory.
type StateStore struct {
	ttl     time.Duration
	nowFunc func() time.Time

	mu     sync.Mutex
	states map[string]pendingAuth
}

type pendingAuth struct {
	verifier string
	expires  time.Time
}

// StateOption configures the StateStore.
type StateOption func(*StateStore)

// WithStateTTL overrides how long a nonce stays valid.
func WithStateTTL(d time.Duration) StateOption {
	return func(s *StateStore) {
		s.ttl = d
	}
}

// WithStateNowFunc overrides the time function for testing.
func WithStateNowFunc(f func() time.Time) StateOption {
	return func(s *StateStore) {
		s.nowFunc = f
	}
}

// NewStateStore creates an empty StateStore.
func NewStateStore(opts ...StateOption) *StateStore {
	s := &StateStore{
		ttl:     defaultStateTTL,
		nowFunc: time.Now,
		states:  make(map[string]pendingAuth),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a new nonce and the PKCE code verifier bound to it.
func (s *StateStore) Issue() (state, verifier string) {
	state = uuid.NewString()
	verifier = oauth2.GenerateVerifier()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	s.sweepLocked(now)
	s.states[state] = pendingAuth{verifier: verifier, expires: now.Add(s.ttl)}
	return state, verifier
}

// Consume validates and removes a nonce, returning its code verifier. It
// returns ErrInvalidState when the nonce was never issued, was already used,
// or has expired.
func (s *StateStore) Consume(state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.states[state]
	if !ok {
		return "", ErrInvalidState
	}
	delete(s.states, state)

	if s.nowFunc().After(p.expires) {
		return "", ErrInvalidState
	}
	return p.verifier, nil
}

// Len returns the number of outstanding nonces.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *StateStore) sweepLocked(now time.Time) {
	for k, p := range s.states {
		if now.After(p.expires) {
			delete(s.states, k)
		}
	}
}
