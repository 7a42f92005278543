package oauth

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken means no stored token matches the requested shop.
	ErrNoToken = errors.New("no oauth token stored")
	// ErrNoRefreshToken means the stored token cannot be refreshed.
	ErrNoRefreshToken = errors.New("oauth token has no refresh token")
	// ErrInvalidState means the callback state nonce is unknown or expired.
	ErrInvalidState = errors.New("invalid or expired oauth state")
)

// TokenExchangeError is returned when the token endpoint rejects a code
// exchange or refresh.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("etsy token exchange error %d: %s", e.StatusCode, e.Body)
}
