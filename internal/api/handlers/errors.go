package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/oauth"
	"github.com/donaldgifford/automerch/internal/provider"
	"github.com/donaldgifford/automerch/internal/store"
)

// mapError converts a domain or provider error into an HTTP error.
//
//	ErrConfiguration         -> 500
//	ErrAuthentication        -> 401
//	store.ErrNotFound        -> 404
//	fatal provider error     -> 502 with the provider status and body
//	transient / rate limited -> 503
func mapError(op string, err error) error {
	msg := op + ": " + err.Error()

	var exch *oauth.TokenExchangeError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, provider.ErrConfiguration):
		return huma.Error500InternalServerError(msg)
	case errors.Is(err, provider.ErrAuthentication):
		return huma.Error401Unauthorized(msg)
	case errors.As(err, &exch):
		return huma.Error502BadGateway(msg)
	}

	if perr, ok := provider.AsProviderError(err); ok {
		switch perr.Kind {
		case provider.KindFatal:
			return huma.Error502BadGateway(msg)
		case provider.KindTransient, provider.KindRateLimited:
			return huma.Error503ServiceUnavailable(msg)
		}
	}

	return huma.Error500InternalServerError(msg)
}
