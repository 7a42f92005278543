package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/automerch/internal/etsy"
	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// maxBatchDrafts bounds a single batch request.
const maxBatchDrafts = 50

// DraftStore defines the store methods required by the drafts handler.
type DraftStore interface {
	GetDefaultShop(ctx context.Context) (*domain.Shop, error)
	UpsertListing(ctx context.Context, l *domain.Listing) error
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListings(ctx context.Context, q *store.ListingQuery) ([]domain.Listing, int, error)
	UpdateProductListing(ctx context.Context, sku, listingID string) error
}

// DraftsHandler creates Etsy draft listings and records them locally.
type DraftsHandler struct {
	store DraftStore
	etsy  etsy.Resolver
	log   *slog.Logger
}

// NewDraftsHandler creates a new DraftsHandler.
func NewDraftsHandler(s DraftStore, r etsy.Resolver, log *slog.Logger) *DraftsHandler {
	return &DraftsHandler{store: s, etsy: r, log: log}
}

// DraftBody describes one draft listing.
type DraftBody struct {
	ShopID      string   `json:"shop_id,omitempty"                                   doc:"Target shop; the default shop when empty"`
	SKU         string   `json:"sku,omitempty"                                       doc:"Product to link the listing to"`
	Title       string   `json:"title"                minLength:"1" maxLength:"140"  doc:"Listing title"`
	Description string   `json:"description"          minLength:"1"                  doc:"Listing description"`
	Price       float64  `json:"price,omitempty"      minimum:"0"                    doc:"Price in USD; skipped when zero"`
	TaxonomyID  int      `json:"taxonomy_id,omitempty"                               doc:"Etsy taxonomy id, default 1125"`
	Tags        []string `json:"tags,omitempty"       maxItems:"13"                  doc:"Etsy tags"`
	WhoMade     string   `json:"who_made,omitempty"   enum:"i_did,someone_else,collective" doc:"Default i_did"`
	WhenMade    string   `json:"when_made,omitempty"                                 doc:"Default made_to_order"`
	IsSupply    bool     `json:"is_supply,omitempty"                                 doc:"Whether the item is a craft supply"`
	Images      []string `json:"images,omitempty"                                    doc:"Image URLs or local paths; at most 10 are uploaded"`
}

func (b *DraftBody) request() etsy.DraftRequest {
	return etsy.DraftRequest{
		Draft: etsy.Draft{
			ShopID:      b.ShopID,
			Title:       b.Title,
			Description: b.Description,
			Price:       b.Price,
			TaxonomyID:  b.TaxonomyID,
			Tags:        b.Tags,
			WhoMade:     b.WhoMade,
			WhenMade:    b.WhenMade,
			IsSupply:    b.IsSupply,
		},
		Images: b.Images,
	}
}

// DraftResponse is the outcome of one draft creation.
type DraftResponse struct {
	ListingID      string               `json:"listing_id"      example:"1234567890"                                doc:"Etsy listing id"`
	ShopID         string               `json:"shop_id"         example:"12345678"                                  doc:"Shop the draft was created in"`
	Status         domain.ListingStatus `json:"status"          example:"draft"                                     doc:"Listing state"`
	EtsyURL        string               `json:"etsy_url"        example:"https://www.etsy.com/listing/1234567890"   doc:"Listing URL"`
	ImagesUploaded int                  `json:"images_uploaded" example:"3"                                         doc:"Images accepted by Etsy"`
	PriceSet       bool                 `json:"price_set"                                                           doc:"Whether the inventory price was applied"`
}

// CreateDraftInput is the request for a single draft.
type CreateDraftInput struct {
	Body DraftBody
}

// CreateDraftOutput is the response for a single draft.
type CreateDraftOutput struct {
	Body DraftResponse
}

// BatchDraftInput is the request for several drafts.
type BatchDraftInput struct {
	Body struct {
		Drafts []DraftBody `json:"drafts" minItems:"1" maxItems:"50" doc:"Drafts to create in order"`
	}
}

// BatchDraftResult is the per-item outcome of a batch.
type BatchDraftResult struct {
	Title string         `json:"title"`
	Draft *DraftResponse `json:"draft,omitempty"`
	Error string         `json:"error,omitempty"`
}

// BatchDraftOutput is the response for a batch.
type BatchDraftOutput struct {
	Body struct {
		Created int                `json:"created" example:"2" doc:"Drafts created"`
		Failed  int                `json:"failed"  example:"0" doc:"Drafts that failed"`
		Results []BatchDraftResult `json:"results"             doc:"Per-draft outcome in request order"`
	}
}

// ListDraftsInput filters stored listings.
type ListDraftsInput struct {
	ShopID string `query:"shop_id"                             doc:"Filter by shop"`
	SKU    string `query:"sku"                                 doc:"Filter by product"`
	Status string `query:"status" enum:"draft,active,inactive" doc:"Filter by listing state"`
	Limit  int    `query:"limit"  minimum:"0" maximum:"500"    doc:"Page size, default 50"`
	Offset int    `query:"offset" minimum:"0"                  doc:"Page offset"`
}

// ListDraftsOutput is a page of stored listings.
type ListDraftsOutput struct {
	Body struct {
		Listings []domain.Listing `json:"listings"`
		Total    int              `json:"total" example:"12" doc:"Total matching listings"`
	}
}

// ListingPathInput selects a listing by its Etsy id.
type ListingPathInput struct {
	ListingID string `path:"listing_id" doc:"Etsy listing id"`
}

// ListingOutput is a single stored listing.
type ListingOutput struct {
	Body *domain.Listing
}

// Create creates one draft listing.
func (h *DraftsHandler) Create(ctx context.Context, in *CreateDraftInput) (*CreateDraftOutput, error) {
	res, err := h.create(ctx, &in.Body)
	if err != nil {
		return nil, mapError("creating draft", err)
	}
	return &CreateDraftOutput{Body: *res}, nil
}

// Batch creates drafts one at a time. A failed draft does not stop the rest.
func (h *DraftsHandler) Batch(ctx context.Context, in *BatchDraftInput) (*BatchDraftOutput, error) {
	if len(in.Body.Drafts) > maxBatchDrafts {
		return nil, huma.Error400BadRequest(fmt.Sprintf("at most %d drafts per batch", maxBatchDrafts))
	}

	resp := &BatchDraftOutput{}
	resp.Body.Results = make([]BatchDraftResult, 0, len(in.Body.Drafts))
	for i := range in.Body.Drafts {
		d := &in.Body.Drafts[i]
		item := BatchDraftResult{Title: d.Title}
		res, err := h.create(ctx, d)
		if err != nil {
			h.log.Error("batch draft failed", "index", i, "title", d.Title, "error", err)
			item.Error = err.Error()
			resp.Body.Failed++
		} else {
			item.Draft = res
			resp.Body.Created++
		}
		resp.Body.Results = append(resp.Body.Results, item)
	}
	return resp, nil
}

// List returns stored listings.
func (h *DraftsHandler) List(ctx context.Context, in *ListDraftsInput) (*ListDraftsOutput, error) {
	q := &store.ListingQuery{
		Limit:  clampLimit(in.Limit),
		Offset: in.Offset,
	}
	if in.ShopID != "" {
		q.ShopID = &in.ShopID
	}
	if in.SKU != "" {
		q.SKU = &in.SKU
	}
	if in.Status != "" {
		st := domain.ListingStatus(in.Status)
		q.Status = &st
	}

	listings, total, err := h.store.ListListings(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing drafts failed: " + err.Error())
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	resp := &ListDraftsOutput{}
	resp.Body.Listings = listings
	resp.Body.Total = total
	return resp, nil
}

// Get returns one stored listing.
func (h *DraftsHandler) Get(ctx context.Context, in *ListingPathInput) (*ListingOutput, error) {
	l, err := h.store.GetListing(ctx, in.ListingID)
	if err != nil {
		return nil, mapError("getting listing", err)
	}
	return &ListingOutput{Body: l}, nil
}

func (h *DraftsHandler) create(ctx context.Context, b *DraftBody) (*DraftResponse, error) {
	req := b.request()
	if req.ShopID == "" {
		shop, err := h.store.GetDefaultShop(ctx)
		switch {
		case err == nil:
			req.ShopID = shop.ShopID
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("resolving default shop: %w", err)
		}
	}

	out, err := etsy.CreateDraft(ctx, h.etsy.For(req.ShopID), req, h.log)
	if err != nil {
		return nil, err
	}
	if out.ShopID == "" {
		out.ShopID = req.ShopID
	}

	l := &domain.Listing{
		ListingID: out.ListingID,
		SKU:       b.SKU,
		ShopID:    out.ShopID,
		Title:     b.Title,
		Status:    out.Status,
		EtsyURL:   out.EtsyURL,
	}
	if out.PriceSet {
		price := b.Price
		l.Price = &price
	}
	if err := h.store.UpsertListing(ctx, l); err != nil {
		return nil, fmt.Errorf("storing listing %s: %w", out.ListingID, err)
	}
	if b.SKU != "" {
		if err := h.store.UpdateProductListing(ctx, b.SKU, out.ListingID); err != nil {
			h.log.Warn("linking product to listing failed", "sku", b.SKU, "listing_id", out.ListingID, "error", err)
		}
	}

	return &DraftResponse{
		ListingID:      out.ListingID,
		ShopID:         out.ShopID,
		Status:         out.Status,
		EtsyURL:        out.EtsyURL,
		ImagesUploaded: out.ImagesUploaded,
		PriceSet:       out.PriceSet,
	}, nil
}

// RegisterDraftRoutes registers draft listing endpoints with the Huma API.
func RegisterDraftRoutes(api huma.API, h *DraftsHandler) {
	draftErrors := []int{
		http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable,
	}

	huma.Register(api, huma.Operation{
		OperationID:   "create-draft",
		Method:        http.MethodPost,
		Path:          "/api/v1/drafts",
		Summary:       "Create a draft listing",
		Description:   "Creates an Etsy draft, sets its price, uploads up to 10 images and records the listing.",
		Tags:          []string{"drafts"},
		DefaultStatus: http.StatusCreated,
		Errors:        draftErrors,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "create-drafts-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/drafts/batch",
		Summary:     "Create draft listings in bulk",
		Description: "Creates each draft in order and reports a result per item.",
		Tags:        []string{"drafts"},
		Errors:      []int{http.StatusBadRequest},
	}, h.Batch)

	huma.Register(api, huma.Operation{
		OperationID: "list-drafts",
		Method:      http.MethodGet,
		Path:        "/api/v1/drafts",
		Summary:     "List recorded listings",
		Tags:        []string{"drafts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-draft",
		Method:      http.MethodGet,
		Path:        "/api/v1/drafts/{listing_id}",
		Summary:     "Get a recorded listing",
		Tags:        []string{"drafts"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Get)
}
