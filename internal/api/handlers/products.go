package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/printful"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// ProductStore defines the store methods required by the products handler.
type ProductStore interface {
	UpsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, sku string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductsHandler manages the local product catalog.
type ProductsHandler struct {
	store    ProductStore
	printful printful.API
	log      *slog.Logger
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(s ProductStore, pf printful.API, log *slog.Logger) *ProductsHandler {
	return &ProductsHandler{store: s, printful: pf, log: log}
}

// ProductBody is the writable part of a product.
type ProductBody struct {
	SKU          string   `json:"sku"                     minLength:"1" doc:"Stock keeping unit"`
	Name         string   `json:"name"                    minLength:"1" doc:"Product name, used as the listing title"`
	Description  string   `json:"description,omitempty"                 doc:"Listing description"`
	Price        *float64 `json:"price,omitempty"         minimum:"0"   doc:"Retail price in USD"`
	Cost         *float64 `json:"cost,omitempty"          minimum:"0"   doc:"Unit cost in USD"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"               doc:"Preview image URL"`
	VariantID    *int     `json:"variant_id,omitempty"                  doc:"Printful catalog variant id"`
	Quantity     *int     `json:"quantity,omitempty"      minimum:"0"   doc:"Stock quantity"`
	TaxonomyID   *int     `json:"taxonomy_id,omitempty"                 doc:"Etsy taxonomy id"`
	Tags         []string `json:"tags,omitempty"          maxItems:"13" doc:"Etsy tags"`
}

func (b *ProductBody) product() *domain.Product {
	return &domain.Product{
		SKU:          b.SKU,
		Name:         b.Name,
		Description:  b.Description,
		Price:        b.Price,
		Cost:         b.Cost,
		ThumbnailURL: b.ThumbnailURL,
		VariantID:    b.VariantID,
		Quantity:     b.Quantity,
		TaxonomyID:   b.TaxonomyID,
		Tags:         b.Tags,
	}
}

// CreateProductInput is the request body for adding a product.
type CreateProductInput struct {
	Body ProductBody
}

// ProductOutput is a single product response.
type ProductOutput struct {
	Body *domain.Product
}

// ListProductsOutput is the product list response.
type ListProductsOutput struct {
	Body []domain.Product
}

// ProductPathInput selects a product by SKU.
type ProductPathInput struct {
	SKU string `path:"sku" doc:"Stock keeping unit"`
}

// CreatePrintfulProductInput creates a product on Printful and in the catalog.
type CreatePrintfulProductInput struct {
	Body struct {
		ProductBody
		DesignURL string `json:"design_url,omitempty" doc:"Print file URL; the thumbnail is used when empty"`
	}
}

// PrintfulProductOutput is the response after creating a Printful product.
type PrintfulProductOutput struct {
	Body struct {
		Product       *domain.Product `json:"product"`
		SyncProductID string          `json:"sync_product_id" example:"12345"              doc:"Printful sync product id"`
		SyncVariantID string          `json:"sync_variant_id" example:"VARIANT-DRYRUN-123" doc:"Printful sync variant id"`
	}
}

// List returns every product.
func (h *ProductsHandler) List(ctx context.Context, _ *struct{}) (*ListProductsOutput, error) {
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing products failed: " + err.Error())
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &ListProductsOutput{Body: products}, nil
}

// Create adds or updates a product.
func (h *ProductsHandler) Create(ctx context.Context, in *CreateProductInput) (*ProductOutput, error) {
	p := in.Body.product()
	if err := h.store.UpsertProduct(ctx, p); err != nil {
		return nil, huma.Error500InternalServerError("saving product failed: " + err.Error())
	}
	return &ProductOutput{Body: p}, nil
}

// Get returns one product.
func (h *ProductsHandler) Get(ctx context.Context, in *ProductPathInput) (*ProductOutput, error) {
	p, err := h.store.GetProduct(ctx, in.SKU)
	if err != nil {
		return nil, mapError("getting product", err)
	}
	return &ProductOutput{Body: p}, nil
}

// CreatePrintful creates a single-variant Printful sync product and stores
// the product with its sync variant id.
func (h *ProductsHandler) CreatePrintful(
	ctx context.Context,
	in *CreatePrintfulProductInput,
) (*PrintfulProductOutput, error) {
	if in.Body.VariantID == nil {
		return nil, huma.Error400BadRequest("variant_id is required for printful products")
	}

	input := printful.ProductInput{
		Name:      in.Body.Name,
		Thumbnail: in.Body.ThumbnailURL,
		SKU:       in.Body.SKU,
		VariantID: *in.Body.VariantID,
		DesignURL: in.Body.DesignURL,
	}
	if in.Body.Price != nil {
		input.RetailPrice = *in.Body.Price
	}

	res, err := h.printful.CreateProduct(ctx, input)
	if err != nil {
		return nil, mapError("creating printful product", err)
	}
	h.log.Info("printful product created",
		"sku", in.Body.SKU, "sync_product_id", res.ProductID, "sync_variant_id", res.VariantID)

	p := in.Body.product()
	p.PrintfulVariantID = res.VariantID
	if err := h.store.UpsertProduct(ctx, p); err != nil {
		return nil, huma.Error500InternalServerError("saving product failed: " + err.Error())
	}

	resp := &PrintfulProductOutput{}
	resp.Body.Product = p
	resp.Body.SyncProductID = res.ProductID
	resp.Body.SyncVariantID = res.VariantID
	return resp, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "create-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Add or update a product",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID:   "create-printful-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products/printful",
		Summary:       "Create a Printful product",
		Description:   "Creates a sync product on Printful and stores it with the returned sync variant id.",
		Tags:          []string{"products", "printful"},
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable,
		},
	}, h.CreatePrintful)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{sku}",
		Summary:     "Get a product",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Get)
}
