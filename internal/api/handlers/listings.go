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

// ListingStore defines the store methods required by the listings handler.
type ListingStore interface {
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	UpsertListing(ctx context.Context, l *domain.Listing) error
}

// ListingsHandler edits listings that already exist on Etsy.
type ListingsHandler struct {
	store ListingStore
	etsy  etsy.Resolver
	log   *slog.Logger
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(s ListingStore, r etsy.Resolver, log *slog.Logger) *ListingsHandler {
	return &ListingsHandler{store: s, etsy: r, log: log}
}

// UpdatePriceInput sets a listing's price.
type UpdatePriceInput struct {
	ListingID string `path:"listing_id" doc:"Etsy listing id"`
	ShopID    string `query:"shop_id"   doc:"Shop owning the listing; taken from the stored listing when empty"`
	Body      struct {
		Price float64 `json:"price" exclusiveMinimum:"0" example:"14.99" doc:"New price in USD"`
	}
}

// UpdatePriceOutput is the response after a price change.
type UpdatePriceOutput struct {
	Body struct {
		ListingID string  `json:"listing_id" example:"1234567890"`
		Price     float64 `json:"price"      example:"14.99"`
	}
}

// UploadImagesInput attaches images to a listing.
type UploadImagesInput struct {
	ListingID string `path:"listing_id" doc:"Etsy listing id"`
	ShopID    string `query:"shop_id"   doc:"Shop owning the listing; taken from the stored listing when empty"`
	Body      struct {
		Images []string `json:"images" minItems:"1" maxItems:"10" doc:"Image URLs or local paths"`
	}
}

// UploadImagesOutput reports the upload outcome per image.
type UploadImagesOutput struct {
	Body struct {
		ListingID string   `json:"listing_id"       example:"1234567890"`
		Uploaded  int      `json:"uploaded"         example:"2"          doc:"Images accepted by Etsy"`
		Failed    []string `json:"failed,omitempty"                      doc:"Sources that could not be uploaded"`
	}
}

// UpdatePrice pushes a new price to Etsy and records it locally.
func (h *ListingsHandler) UpdatePrice(ctx context.Context, in *UpdatePriceInput) (*UpdatePriceOutput, error) {
	stored, shopID, err := h.lookup(ctx, in.ListingID, in.ShopID)
	if err != nil {
		return nil, mapError("resolving listing", err)
	}

	if err := h.etsy.For(shopID).UpdateListingPrice(ctx, in.ListingID, in.Body.Price); err != nil {
		return nil, mapError("updating listing price", err)
	}

	if stored != nil {
		price := in.Body.Price
		stored.Price = &price
		if err := h.store.UpsertListing(ctx, stored); err != nil {
			h.log.Warn("recording listing price failed", "listing_id", in.ListingID, "error", err)
		}
	}

	resp := &UpdatePriceOutput{}
	resp.Body.ListingID = in.ListingID
	resp.Body.Price = in.Body.Price
	return resp, nil
}

// UploadImages uploads each image in turn. Individual failures are reported,
// not returned.
func (h *ListingsHandler) UploadImages(ctx context.Context, in *UploadImagesInput) (*UploadImagesOutput, error) {
	_, shopID, err := h.lookup(ctx, in.ListingID, in.ShopID)
	if err != nil {
		return nil, mapError("resolving listing", err)
	}
	api := h.etsy.For(shopID)

	resp := &UploadImagesOutput{}
	resp.Body.ListingID = in.ListingID
	for _, src := range in.Body.Images {
		if err := api.UploadListingImage(ctx, in.ListingID, src); err != nil {
			h.log.Error("image upload failed", "listing_id", in.ListingID, "image", src, "error", err)
			resp.Body.Failed = append(resp.Body.Failed, src)
			continue
		}
		resp.Body.Uploaded++
	}
	return resp, nil
}

// lookup returns the stored listing, if any, and the shop to act as.
func (h *ListingsHandler) lookup(ctx context.Context, listingID, shopID string) (*domain.Listing, string, error) {
	l, err := h.store.GetListing(ctx, listingID)
	switch {
	case err == nil:
		if shopID == "" {
			shopID = l.ShopID
		}
		return l, shopID, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, shopID, nil
	default:
		return nil, "", fmt.Errorf("getting listing %s: %w", listingID, err)
	}
}

// RegisterListingRoutes registers listing edit endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	listingErrors := []int{
		http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable,
	}

	huma.Register(api, huma.Operation{
		OperationID: "update-listing-price",
		Method:      http.MethodPut,
		Path:        "/api/v1/listings/{listing_id}/price",
		Summary:     "Update a listing price",
		Description: "Replaces the listing inventory with one USD offering at the given price.",
		Tags:        []string{"listings"},
		Errors:      listingErrors,
	}, h.UpdatePrice)

	huma.Register(api, huma.Operation{
		OperationID: "upload-listing-images",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings/{listing_id}/images",
		Summary:     "Upload listing images",
		Tags:        []string{"listings"},
		Errors:      listingErrors,
	}, h.UploadImages)
}
