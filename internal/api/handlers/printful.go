package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/printful"
)

// PrintfulHandler exposes read-only Printful store data.
type PrintfulHandler struct {
	printful printful.API
}

// NewPrintfulHandler creates a new PrintfulHandler.
func NewPrintfulHandler(pf printful.API) *PrintfulHandler {
	return &PrintfulHandler{printful: pf}
}

// StoreInfoOutput is the Printful store response.
type StoreInfoOutput struct {
	Body *printful.StoreInfo
}

// CatalogVariantsInput selects a catalog product.
type CatalogVariantsInput struct {
	ProductID int `path:"product_id" minimum:"1" example:"19" doc:"Printful catalog product id"`
}

// CatalogVariantsOutput lists orderable variants.
type CatalogVariantsOutput struct {
	Body []printful.CatalogVariant
}

// OrdersInput pages through Printful orders.
type OrdersInput struct {
	Limit  int `query:"limit"  minimum:"0" maximum:"100" doc:"Page size, default 10"`
	Offset int `query:"offset" minimum:"0"               doc:"Page offset"`
}

// OrdersOutput is a page of Printful orders.
type OrdersOutput struct {
	Body []printful.Order
}

// StoreInfo returns the connected Printful store.
func (h *PrintfulHandler) StoreInfo(ctx context.Context, _ *struct{}) (*StoreInfoOutput, error) {
	info, err := h.printful.GetStoreInfo(ctx)
	if err != nil {
		return nil, mapError("getting printful store", err)
	}
	return &StoreInfoOutput{Body: info}, nil
}

// CatalogVariants returns the variants of a catalog product.
func (h *PrintfulHandler) CatalogVariants(
	ctx context.Context,
	in *CatalogVariantsInput,
) (*CatalogVariantsOutput, error) {
	variants, err := h.printful.GetCatalogVariants(ctx, in.ProductID)
	if err != nil {
		return nil, mapError("getting catalog variants", err)
	}
	if variants == nil {
		variants = []printful.CatalogVariant{}
	}
	return &CatalogVariantsOutput{Body: variants}, nil
}

// Orders returns recent Printful orders.
func (h *PrintfulHandler) Orders(ctx context.Context, in *OrdersInput) (*OrdersOutput, error) {
	orders, err := h.printful.GetOrders(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, mapError("getting printful orders", err)
	}
	return &OrdersOutput{Body: orders}, nil
}

// RegisterPrintfulRoutes registers Printful endpoints with the Huma API.
func RegisterPrintfulRoutes(api huma.API, h *PrintfulHandler) {
	pfErrors := []int{
		http.StatusUnauthorized, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable,
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-printful-store",
		Method:      http.MethodGet,
		Path:        "/api/v1/printful/store",
		Summary:     "Get Printful store info",
		Tags:        []string{"printful"},
		Errors:      pfErrors,
	}, h.StoreInfo)

	huma.Register(api, huma.Operation{
		OperationID: "get-printful-catalog-variants",
		Method:      http.MethodGet,
		Path:        "/api/v1/printful/catalog/{product_id}/variants",
		Summary:     "List catalog variants",
		Tags:        []string{"printful"},
		Errors:      pfErrors,
	}, h.CatalogVariants)

	huma.Register(api, huma.Operation{
		OperationID: "list-printful-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/printful/orders",
		Summary:     "List Printful orders",
		Tags:        []string{"printful"},
		Errors:      pfErrors,
	}, h.Orders)
}
