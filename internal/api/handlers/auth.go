package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/oauth"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// OAuthManager is the token lifecycle used by the auth routes.
type OAuthManager interface {
	AuthorizationURL(state, verifier string) (string, error)
	Exchange(ctx context.Context, code, verifier, shopID string) (*domain.Token, error)
	Refresh(ctx context.Context, shopID string) oauth.RefreshResult
}

// RunLogWriter records operator actions.
type RunLogWriter interface {
	InsertRunLog(ctx context.Context, r *domain.RunLog) error
}

// AuthHandler handles the Etsy OAuth connect flow.
type AuthHandler struct {
	oauth  OAuthManager
	states *oauth.StateStore
	logs   RunLogWriter
	log    *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(m OAuthManager, states *oauth.StateStore, logs RunLogWriter, log *slog.Logger) *AuthHandler {
	return &AuthHandler{oauth: m, states: states, logs: logs, log: log}
}

// LoginOutput redirects the browser to the Etsy consent page.
type LoginOutput struct {
	Status   int
	Location string `header:"Location"`
}

// Login starts the OAuth flow with a fresh anti-forgery state and PKCE verifier.
func (h *AuthHandler) Login(_ context.Context, _ *struct{}) (*LoginOutput, error) {
	url, err := h.oauth.AuthorizationURL(h.states.Issue())
	if err != nil {
		return nil, mapError("building authorization url", err)
	}
	return &LoginOutput{Status: http.StatusSeeOther, Location: url}, nil
}

// CallbackInput carries the provider redirect parameters.
type CallbackInput struct {
	Code             string `query:"code"              doc:"Authorization code"`
	State            string `query:"state"             doc:"Anti-forgery state issued by login"`
	Error            string `query:"error"             doc:"Set by Etsy when the user denied access"`
	ErrorDescription string `query:"error_description" doc:"Provider error detail"`
	ShopID           string `query:"shop_id"           doc:"Shop to bind the token to; discovered when empty"`
}

// CallbackOutput is the response body after a successful connect.
type CallbackOutput struct {
	Body struct {
		Status    string     `json:"status"               example:"connected" doc:"Connection status"`
		ShopID    string     `json:"shop_id"              example:"12345678"  doc:"Shop the token is bound to; empty for the legacy token"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"                     doc:"Access token expiry"`
	}
}

// Callback exchanges the authorization code and stores the token.
func (h *AuthHandler) Callback(ctx context.Context, in *CallbackInput) (*CallbackOutput, error) {
	if in.Error != "" {
		return nil, huma.Error400BadRequest(fmt.Sprintf("authorization denied: %s %s", in.Error, in.ErrorDescription))
	}
	if in.Code == "" {
		return nil, huma.Error400BadRequest("missing authorization code")
	}
	verifier, err := h.states.Consume(in.State)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	tok, err := h.oauth.Exchange(ctx, in.Code, verifier, in.ShopID)
	if err != nil {
		h.record(ctx, domain.RunStatusError, err.Error())
		return nil, mapError("exchanging authorization code", err)
	}
	h.record(ctx, domain.RunStatusOK, "connected shop "+shopLabel(tok.ShopID))

	resp := &CallbackOutput{}
	resp.Body.Status = "connected"
	resp.Body.ShopID = tok.ShopID
	resp.Body.ExpiresAt = tok.ExpiresAt
	return resp, nil
}

// RefreshInput selects the token to refresh.
type RefreshInput struct {
	ShopID string `query:"shop_id" doc:"Shop whose token is refreshed; the legacy or default token when empty"`
}

// RefreshTokenOutput is the response body for a token refresh.
type RefreshTokenOutput struct {
	Body struct {
		Refreshed bool       `json:"refreshed"            doc:"Whether the provider issued a new access token"`
		ShopID    string     `json:"shop_id"              doc:"Shop the token belongs to"`
		ExpiresAt *time.Time `json:"expires_at,omitempty" doc:"Access token expiry"`
	}
}

// Refresh forces a token refresh.
func (h *AuthHandler) Refresh(ctx context.Context, in *RefreshInput) (*RefreshTokenOutput, error) {
	res := h.oauth.Refresh(ctx, in.ShopID)
	switch {
	case res.Refreshed:
	case errors.Is(res.Failure, oauth.ErrNoToken):
		return nil, huma.Error404NotFound("no token stored for shop " + shopLabel(in.ShopID))
	case errors.Is(res.Failure, oauth.ErrNoRefreshToken):
		return nil, huma.Error409Conflict("token has no refresh token; reconnect the shop")
	default:
		return nil, mapError("refreshing token", res.Failure)
	}

	resp := &RefreshTokenOutput{}
	resp.Body.Refreshed = true
	resp.Body.ShopID = res.Token.ShopID
	resp.Body.ExpiresAt = res.Token.ExpiresAt
	return resp, nil
}

func (h *AuthHandler) record(ctx context.Context, status, msg string) {
	if h.logs == nil {
		return
	}
	if err := h.logs.InsertRunLog(ctx, &domain.RunLog{
		Job:     domain.JobOAuthCallback,
		Status:  status,
		Message: msg,
	}); err != nil {
		h.log.Error("writing run log failed", "job", domain.JobOAuthCallback, "error", err)
	}
}

func shopLabel(id string) string {
	if id == "" {
		return "(legacy)"
	}
	return id
}

// RegisterAuthRoutes registers the OAuth endpoints with the Huma API.
func RegisterAuthRoutes(api huma.API, h *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "etsy-login",
		Method:      http.MethodGet,
		Path:        "/auth/etsy/login",
		Summary:     "Start Etsy OAuth",
		Description: "Redirects to the Etsy consent page with a single-use state nonce.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID: "etsy-callback",
		Method:      http.MethodGet,
		Path:        "/auth/etsy/callback",
		Summary:     "Etsy OAuth callback",
		Description: "Exchanges the authorization code for tokens and stores them per shop.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway},
	}, h.Callback)

	huma.Register(api, huma.Operation{
		OperationID: "etsy-refresh",
		Method:      http.MethodPost,
		Path:        "/auth/etsy/refresh",
		Summary:     "Refresh an Etsy token",
		Description: "Forces a refresh of the shop's token, or the legacy/default token when no shop is given.",
		Tags:        []string{"auth"},
		Errors: []int{
			http.StatusNotFound, http.StatusConflict,
			http.StatusInternalServerError, http.StatusBadGateway,
		},
	}, h.Refresh)
}
