package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// DraftInput describes one draft listing.
type DraftInput struct {
	ShopID      string   `json:"shop_id,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price,omitempty"`
	TaxonomyID  int      `json:"taxonomy_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	WhoMade     string   `json:"who_made,omitempty"`
	WhenMade    string   `json:"when_made,omitempty"`
	IsSupply    bool     `json:"is_supply,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Draft is the outcome of creating a draft.
type Draft struct {
	ListingID      string               `json:"listing_id"`
	ShopID         string               `json:"shop_id"`
	Status         domain.ListingStatus `json:"status"`
	EtsyURL        string               `json:"etsy_url"`
	ImagesUploaded int                  `json:"images_uploaded"`
	PriceSet       bool                 `json:"price_set"`
}

// BatchResult is the outcome of a batch draft request.
type BatchResult struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
	Results []struct {
		Title string `json:"title"`
		Draft *Draft `json:"draft,omitempty"`
		Error string `json:"error,omitempty"`
	} `json:"results"`
}

// ListingFilter narrows ListDrafts.
type ListingFilter struct {
	ShopID string
	SKU    string
	Status string
	Limit  int
	Offset int
}

// ListingPage is one page of recorded listings.
type ListingPage struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// CreateDraft creates one draft listing.
func (c *Client) CreateDraft(ctx context.Context, in *DraftInput) (*Draft, error) {
	var d Draft
	if err := c.post(ctx, "/api/v1/drafts", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDrafts creates several drafts in order.
func (c *Client) CreateDrafts(ctx context.Context, in []DraftInput) (*BatchResult, error) {
	var out BatchResult
	body := map[string]any{"drafts": in}
	if err := c.post(ctx, "/api/v1/drafts/batch", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDrafts returns recorded listings.
func (c *Client) ListDrafts(ctx context.Context, f ListingFilter) (*ListingPage, error) {
	q := map[string]string{
		"shop_id": f.ShopID,
		"sku":     f.SKU,
		"status":  f.Status,
	}
	if f.Limit > 0 {
		q["limit"] = strconv.Itoa(f.Limit)
	}
	if f.Offset > 0 {
		q["offset"] = strconv.Itoa(f.Offset)
	}

	var page ListingPage
	if err := c.get(ctx, "/api/v1/drafts", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDraft returns one recorded listing.
func (c *Client) GetDraft(ctx context.Context, listingID string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.get(ctx, "/api/v1/drafts/"+url.PathEscape(listingID), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListingPrice sets a listing's price on Etsy.
func (c *Client) UpdateListingPrice(ctx context.Context, listingID, shopID string, price float64) error {
	path := "/api/v1/listings/" + url.PathEscape(listingID) + "/price"
	if shopID != "" {
		path += "?shop_id=" + url.QueryEscape(shopID)
	}
	return c.put(ctx, path, map[string]float64{"price": price}, nil)
}

// ImageUpload reports how many images a listing accepted.
type ImageUpload struct {
	ListingID string   `json:"listing_id"`
	Uploaded  int      `json:"uploaded"`
	Failed    []string `json:"failed,omitempty"`
}

// UploadListingImages attaches images to a listing on Etsy.
func (c *Client) UploadListingImages(ctx context.Context, listingID, shopID string, images []string) (*ImageUpload, error) {
	path := "/api/v1/listings/" + url.PathEscape(listingID) + "/images"
	if shopID != "" {
		path += "?shop_id=" + url.QueryEscape(shopID)
	}

	var out ImageUpload
	if err := c.post(ctx, path, map[string][]string{"images": images}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
