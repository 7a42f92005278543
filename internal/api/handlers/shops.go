package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// ShopStore defines the store methods required by the shops handler.
type ShopStore interface {
	GetShop(ctx context.Context, shopID string) (*domain.Shop, error)
	GetDefaultShop(ctx context.Context) (*domain.Shop, error)
	ListShops(ctx context.Context, activeOnly bool) ([]domain.Shop, error)
	UpsertShop(ctx context.Context, s *domain.Shop) error
	DeleteShop(ctx context.Context, shopID string) error
	SetDefaultShop(ctx context.Context, shopID string) error
}

// ShopsHandler manages connected Etsy shops.
type ShopsHandler struct {
	store ShopStore
}

// NewShopsHandler creates a new ShopsHandler.
func NewShopsHandler(s ShopStore) *ShopsHandler {
	return &ShopsHandler{store: s}
}

// ListShopsInput filters the shop list.
type ListShopsInput struct {
	ActiveOnly bool `query:"active_only" doc:"Only return active shops"`
}

// ListShopsOutput is the response body for listing shops.
type ListShopsOutput struct {
	Body []domain.Shop
}

// ShopPathInput selects a shop by id.
type ShopPathInput struct {
	ShopID string `path:"shop_id" doc:"Etsy shop id"`
}

// ShopOutput is a single shop response.
type ShopOutput struct {
	Body *domain.Shop
}

// CreateShopInput is the request body for adding a shop.
type CreateShopInput struct {
	Body struct {
		ShopID      string `json:"shop_id"               minLength:"1"     doc:"Etsy shop id"`
		ShopName    string `json:"shop_name,omitempty"                     doc:"Display name"`
		IsActive    *bool  `json:"is_active,omitempty"                     doc:"Defaults to true"`
		IsDefault   bool   `json:"is_default,omitempty"                    doc:"Make this the default shop"`
		ShopURL     string `json:"shop_url,omitempty"                      doc:"Defaults to the public shop URL"`
		Description string `json:"description,omitempty"                   doc:"Operator notes"`
	}
}

// List returns the connected shops.
func (h *ShopsHandler) List(ctx context.Context, in *ListShopsInput) (*ListShopsOutput, error) {
	shops, err := h.store.ListShops(ctx, in.ActiveOnly)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing shops failed: " + err.Error())
	}
	if shops == nil {
		shops = []domain.Shop{}
	}
	return &ListShopsOutput{Body: shops}, nil
}

// Create adds or updates a shop.
func (h *ShopsHandler) Create(ctx context.Context, in *CreateShopInput) (*ShopOutput, error) {
	s := &domain.Shop{
		ShopID:      in.Body.ShopID,
		ShopName:    in.Body.ShopName,
		IsActive:    in.Body.IsActive == nil || *in.Body.IsActive,
		IsDefault:   in.Body.IsDefault,
		ShopURL:     in.Body.ShopURL,
		Description: in.Body.Description,
	}
	if s.ShopURL == "" {
		s.ShopURL = domain.ShopURLFor(s.ShopID)
	}
	if err := h.store.UpsertShop(ctx, s); err != nil {
		return nil, huma.Error500InternalServerError("saving shop failed: " + err.Error())
	}
	return &ShopOutput{Body: s}, nil
}

// Get returns one shop.
func (h *ShopsHandler) Get(ctx context.Context, in *ShopPathInput) (*ShopOutput, error) {
	s, err := h.store.GetShop(ctx, in.ShopID)
	if err != nil {
		return nil, mapError("getting shop", err)
	}
	return &ShopOutput{Body: s}, nil
}

// GetDefault returns the default shop.
func (h *ShopsHandler) GetDefault(ctx context.Context, _ *struct{}) (*ShopOutput, error) {
	s, err := h.store.GetDefaultShop(ctx)
	if err != nil {
		return nil, mapError("getting default shop", err)
	}
	return &ShopOutput{Body: s}, nil
}

// Delete removes a shop.
func (h *ShopsHandler) Delete(ctx context.Context, in *ShopPathInput) (*struct{}, error) {
	if err := h.store.DeleteShop(ctx, in.ShopID); err != nil {
		return nil, mapError("deleting shop", err)
	}
	return nil, nil
}

// SetDefault makes the shop the only default.
func (h *ShopsHandler) SetDefault(ctx context.Context, in *ShopPathInput) (*ShopOutput, error) {
	if err := h.store.SetDefaultShop(ctx, in.ShopID); err != nil {
		return nil, mapError("setting default shop", err)
	}
	s, err := h.store.GetShop(ctx, in.ShopID)
	if err != nil {
		return nil, mapError("getting shop", err)
	}
	return &ShopOutput{Body: s}, nil
}

// RegisterShopRoutes registers shop endpoints with the Huma API.
func RegisterShopRoutes(api huma.API, h *ShopsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-shops",
		Method:      http.MethodGet,
		Path:        "/api/v1/shops",
		Summary:     "List shops",
		Tags:        []string{"shops"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "create-shop",
		Method:        http.MethodPost,
		Path:          "/api/v1/shops",
		Summary:       "Add or update a shop",
		Description:   "Upserts a shop. Setting is_default clears the flag on every other shop.",
		Tags:          []string{"shops"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-default-shop",
		Method:      http.MethodGet,
		Path:        "/api/v1/shops/default",
		Summary:     "Get the default shop",
		Tags:        []string{"shops"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetDefault)

	huma.Register(api, huma.Operation{
		OperationID: "get-shop",
		Method:      http.MethodGet,
		Path:        "/api/v1/shops/{shop_id}",
		Summary:     "Get a shop",
		Tags:        []string{"shops"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-shop",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shops/{shop_id}",
		Summary:       "Delete a shop",
		Tags:          []string{"shops"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "set-default-shop",
		Method:      http.MethodPost,
		Path:        "/api/v1/shops/{shop_id}/set-default",
		Summary:     "Make a shop the default",
		Description: "Atomically moves the default flag to this shop.",
		Tags:        []string{"shops"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.SetDefault)
}
