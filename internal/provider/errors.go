package provider

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// maxErrorBody caps how much of a provider response body is kept in errors.
const maxErrorBody = 500

// Sentinel errors. A *ProviderError matches the sentinel of its Kind via errors.Is.
var (
	// ErrConfiguration means a required credential or setting is missing.
	ErrConfiguration = errors.New("provider not configured")
	// ErrAuthentication means no access token could be resolved.
	ErrAuthentication = errors.New("no access token available")
	// ErrFatalProvider means the provider rejected the request (non-retryable 4xx).
	ErrFatalProvider = errors.New("provider rejected request")
	// ErrTransientProvider means retries were exhausted on 5xx or network errors.
	ErrTransientProvider = errors.New("provider unavailable")
	// ErrRateLimited means retries were exhausted on 429 responses or the daily quota is spent.
	ErrRateLimited = errors.New("provider rate limit exhausted")
)

// ErrorKind classifies a ProviderError.
type ErrorKind int

// Error kinds.
const (
	KindFatal ErrorKind = iota + 1
	KindTransient
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindTransient:
		return "transient"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// ProviderError describes a failed outbound provider call.
type ProviderError struct {
	Provider   string
	Method     string
	URL        string
	StatusCode int    // zero when no response was received
	Body       string // truncated response body
	Attempts   int
	Kind       ErrorKind
	Err        error // last transport error, if any
}

func (e *ProviderError) Error() string {
	switch {
	case e.Kind == KindFatal:
		return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.StatusCode > 0:
		return fmt.Sprintf(
			"%s API unavailable after %d attempts (status %d): %s",
			e.Provider, e.Attempts, e.StatusCode, e.Body,
		)
	case e.Err != nil:
		return fmt.Sprintf("%s API unavailable after %d attempts: %v", e.Provider, e.Attempts, e.Err)
	default:
		return fmt.Sprintf("%s API unavailable after %d attempts", e.Provider, e.Attempts)
	}
}

// Unwrap returns the underlying transport error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrFatalProvider:
		return e.Kind == KindFatal
	case ErrTransientProvider:
		return e.Kind == KindTransient
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	default:
		return false
	}
}

// AsProviderError unwraps err to a *ProviderError if it contains one.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func truncateBody(b []byte) string {
	if len(b) <= maxErrorBody {
		return string(b)
	}
	return TruncateUTF8(b, maxErrorBody)
}

// TruncateUTF8 returns at most n bytes of b as a string, backing off to the
// last complete rune so multi-byte characters are never split.
func TruncateUTF8(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut])
}
