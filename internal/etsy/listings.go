package etsy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/donaldgifford/automerch/internal/provider"
)

// ErrPriceNotSet is returned alongside a created listing id when the draft
// exists but its price could not be set.
var ErrPriceNotSet = errors.New("listing price not set")

// Draft is the input for a new draft listing.
type Draft struct {
	ShopID      string
	Title       string
	Description string
	Price       float64
	TaxonomyID  int
	Tags        []string
	WhoMade     string // default "i_did"
	WhenMade    string // default "made_to_order"
	IsSupply    bool
}

// ListingUpdate holds the listing fields that may be patched. Nil fields are
// left unchanged.
type ListingUpdate struct {
	Title       *string
	Description *string
	WhoMade     *string
	WhenMade    *string
	IsSupply    *bool
	Tags        []string
}

func (u ListingUpdate) fields() map[string]any {
	f := map[string]any{}
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Description != nil {
		f["description"] = *u.Description
	}
	if u.WhoMade != nil {
		f["who_made"] = *u.WhoMade
	}
	if u.WhenMade != nil {
		f["when_made"] = *u.WhenMade
	}
	if u.IsSupply != nil {
		f["is_supply"] = *u.IsSupply
	}
	if u.Tags != nil {
		f["tags"] = u.Tags
	}
	return f
}

// Money is an Etsy price: amount / divisor in currency.
type Money struct {
	Amount       int64  `json:"amount"`
	Divisor      int64  `json:"divisor,omitempty"`
	CurrencyCode string `json:"currency_code"`
}

// Float returns the decimal value of m.
func (m Money) Float() float64 {
	return provider.FromMinorUnits(m.Amount, m.Divisor)
}

// Listing is the subset of an Etsy listing that automerch reads back.
type Listing struct {
	ListingID   string
	ShopID      string
	Title       string
	Description string
	State       string
	URL         string
	Tags        []string
	Quantity    int
	Price       *float64
	Currency    string
}

type listingPayload struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	WhoMade          string   `json:"who_made"`
	WhenMade         string   `json:"when_made"`
	IsSupply         bool     `json:"is_supply"`
	TaxonomyID       int      `json:"taxonomy_id"`
	Type             string   `json:"type"`
	ShouldAutoRenew  bool     `json:"should_auto_renew"`
	State            string   `json:"state"`
	IsPersonalizable bool     `json:"is_personalizable"`
	Tags             []string `json:"tags,omitempty"`
}

type listingResponse struct {
	ListingID   provider.ID `json:"listing_id"`
	ShopID      provider.ID `json:"shop_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	State       string      `json:"state"`
	URL         string      `json:"url"`
	Tags        []string    `json:"tags"`
	Quantity    int         `json:"quantity"`
	Price       *Money      `json:"price"`
}

type inventoryPayload struct {
	Products []inventoryProduct `json:"products"`
}

type inventoryProduct struct {
	Offerings []offering `json:"offerings"`
}

type offering struct {
	Price    Money `json:"price"`
	Quantity int   `json:"quantity"`
}

// CreateListingDraft creates a draft listing and, when the draft has a
// price, sets it through the inventory endpoint. If only the price update
// fails, the listing id is returned together with an error wrapping
// ErrPriceNotSet.
func (c *Client) CreateListingDraft(ctx context.Context, d Draft) (string, error) {
	shopID, err := c.resolveShop(d.ShopID)
	if err != nil {
		return "", err
	}

	payload := listingPayload{
		Title:       d.Title,
		Description: d.Description,
		WhoMade:     valueOr(d.WhoMade, "i_did"),
		WhenMade:    valueOr(d.WhenMade, "made_to_order"),
		IsSupply:    d.IsSupply,
		TaxonomyID:  d.TaxonomyID,
		Type:        "physical",
		State:       "draft",
		Tags:        d.Tags,
	}
	if payload.TaxonomyID == 0 {
		payload.TaxonomyID = DefaultTaxonomyID
	}

	resp, err := c.http.Do(ctx, provider.Request{
		Method: http.MethodPost,
		Path:   "/shops/" + shopID + "/listings",
		JSON:   payload,
	})
	if err != nil {
		return "", fmt.Errorf("creating draft listing: %w", err)
	}

	var lr listingResponse
	if err := provider.DecodeJSON(resp, &lr); err != nil {
		return "", fmt.Errorf("creating draft listing: %w", err)
	}
	id := string(lr.ListingID)
	if id == "" {
		return "", errors.New("creating draft listing: response has no listing_id")
	}

	c.log.Info("etsy draft created", "listing_id", id, "shop_id", shopID, "dry_run", resp.Synthetic())

	if d.Price > 0 {
		if err := c.UpdateListingPrice(ctx, id, d.Price); err != nil {
			return id, fmt.Errorf("listing %s created but %w: %w", id, ErrPriceNotSet, err)
		}
	}
	return id, nil
}

// UpdateListingPrice sets the listing price (USD) with a quantity of 999.
func (c *Client) UpdateListingPrice(ctx context.Context, listingID string, price float64) error {
	payload := inventoryPayload{Products: []inventoryProduct{{
		Offerings: []offering{{
			Price:    Money{Amount: provider.ToMinorUnits(price), CurrencyCode: defaultCurrency},
			Quantity: defaultQuantity,
		}},
	}}}

	if _, err := c.http.Do(ctx, provider.Request{
		Method: http.MethodPut,
		Path:   "/listings/" + listingID + "/inventory",
		JSON:   payload,
	}); err != nil {
		return fmt.Errorf("updating price for listing %s: %w", listingID, err)
	}
	return nil
}

// UpdateListing patches the allowed listing fields. An empty update is a no-op.
func (c *Client) UpdateListing(ctx context.Context, listingID string, u ListingUpdate) error {
	fields := u.fields()
	if len(fields) == 0 {
		return nil
	}
	if _, err := c.http.Do(ctx, provider.Request{
		Method: http.MethodPatch,
		Path:   "/listings/" + listingID,
		JSON:   fields,
	}); err != nil {
		return fmt.Errorf("updating listing %s: %w", listingID, err)
	}
	return nil
}

// GetListing fetches a listing.
func (c *Client) GetListing(ctx context.Context, listingID string) (*Listing, error) {
	resp, err := c.http.Do(ctx, provider.Request{
		Method: http.MethodGet,
		Path:   "/listings/" + listingID,
	})
	if err != nil {
		return nil, fmt.Errorf("getting listing %s: %w", listingID, err)
	}

	var lr listingResponse
	if err := provider.DecodeJSON(resp, &lr); err != nil {
		return nil, fmt.Errorf("getting listing %s: %w", listingID, err)
	}

	l := &Listing{
		ListingID:   string(lr.ListingID),
		ShopID:      string(lr.ShopID),
		Title:       lr.Title,
		Description: lr.Description,
		State:       lr.State,
		URL:         lr.URL,
		Tags:        lr.Tags,
		Quantity:    lr.Quantity,
	}
	if l.ListingID == "" {
		l.ListingID = listingID
	}
	if lr.Price != nil {
		p := lr.Price.Float()
		l.Price = &p
		l.Currency = lr.Price.CurrencyCode
	}
	return l, nil
}

// UploadListingImage attaches an image to a listing. Sources starting with
// http:// or https:// are downloaded first; anything else is read from disk.
func (c *Client) UploadListingImage(ctx context.Context, listingID, source string) error {
	var (
		name string
		data []byte
		err  error
	)
	if c.dryRun {
		name = path.Base(source)
	} else {
		name, data, err = c.images.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("loading image %s: %w", source, err)
		}
	}

	if _, err := c.http.Do(ctx, provider.Request{
		Method:  http.MethodPost,
		Path:    "/listings/" + listingID + "/images",
		File:    &provider.File{Field: "image", Name: name, ContentType: imageContentType(name, data), Data: data},
		Timeout: imageUploadTimeout,
	}); err != nil {
		return fmt.Errorf("uploading image to listing %s: %w", listingID, err)
	}
	return nil
}

func (c *Client) resolveShop(draftShop string) (string, error) {
	switch {
	case draftShop != "":
		return draftShop, nil
	case c.shopID != "":
		return c.shopID, nil
	case c.defaultShopID != "":
		return c.defaultShopID, nil
	case c.dryRun:
		return dryRunShopID, nil
	default:
		return "", fmt.Errorf("etsy shop id required: %w", provider.ErrConfiguration)
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
