package etsy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/automerch/internal/metrics"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

// MaxImages is the number of images Etsy accepts per listing.
const MaxImages = 10

// DraftRequest describes a draft listing together with its images.
type DraftRequest struct {
	Draft
	Images []string
}

// DraftResult is the outcome of CreateDraft.
type DraftResult struct {
	ListingID      string
	ShopID         string
	EtsyURL        string
	Status         domain.ListingStatus
	ImagesUploaded int
	PriceSet       bool
}

// CreateDraft creates a draft, uploads up to MaxImages images and resolves
// the listing URL. Image upload and URL lookup failures are logged and do
// not fail the draft.
func CreateDraft(ctx context.Context, api API, req DraftRequest, log *slog.Logger) (*DraftResult, error) {
	if log == nil {
		log = slog.Default()
	}

	id, err := api.CreateListingDraft(ctx, req.Draft)
	priceSet := req.Price > 0
	switch {
	case err == nil:
	case id != "" && errors.Is(err, ErrPriceNotSet):
		log.Warn("draft created without price", "listing_id", id, "error", err)
		priceSet = false
	default:
		return nil, fmt.Errorf("creating draft %q: %w", req.Title, err)
	}
	metrics.DraftsCreatedTotal.Inc()

	res := &DraftResult{
		ListingID: id,
		ShopID:    req.ShopID,
		Status:    domain.ListingDraft,
		PriceSet:  priceSet,
	}

	images := req.Images
	if len(images) > MaxImages {
		log.Warn("too many images, extra images skipped", "listing_id", id, "count", len(images))
		images = images[:MaxImages]
	}
	for i, src := range images {
		if err := api.UploadListingImage(ctx, id, src); err != nil {
			metrics.ImageUploadFailuresTotal.Inc()
			log.Error("image upload failed", "listing_id", id, "image", src, "error", err)
			continue
		}
		res.ImagesUploaded++
		log.Info("image uploaded", "listing_id", id, "index", i+1, "total", len(images))
	}

	res.EtsyURL = domain.ListingURLFor(id)
	if l, err := api.GetListing(ctx, id); err != nil {
		log.Warn("listing lookup failed, using default url", "listing_id", id, "error", err)
	} else {
		if l.URL != "" {
			res.EtsyURL = l.URL
		}
		if res.ShopID == "" {
			res.ShopID = l.ShopID
		}
	}
	return res, nil
}
