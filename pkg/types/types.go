// Package domain defines the core business types for automerch.
package domain

import (
	"time"
)

// ProviderEtsy is the provider name used for Etsy OAuth tokens.
const ProviderEtsy = "etsy"

// Token is an OAuth credential for one (provider, shop) pair. An empty ShopID
// marks the legacy token created before per-shop tokens existed.
type Token struct {
	ID           int64      `json:"id"                   db:"id"`
	Provider     string     `json:"provider"             db:"provider"`
	ShopID       string     `json:"shop_id"              db:"shop_id"`
	AccessToken  string     `json:"-"                    db:"access_token"`
	RefreshToken string     `json:"-"                    db:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"           db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Expired reports whether the token has a known expiry that is before now.
// Tokens without an expiry never expire.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// Shop is a connected Etsy shop.
type Shop struct {
	ShopID      string     `json:"shop_id"               db:"shop_id"`
	ShopName    string     `json:"shop_name,omitempty"   db:"shop_name"`
	IsActive    bool       `json:"is_active"             db:"is_active"`
	IsDefault   bool       `json:"is_default"            db:"is_default"`
	ShopURL     string     `json:"shop_url,omitempty"    db:"shop_url"`
	Description string     `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at"            db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"  db:"updated_at"`
}

// ShopURLFor returns the public storefront URL of an Etsy shop.
func ShopURLFor(shopID string) string {
	return "https://www.etsy.com/shop/" + shopID
}

// Product is a catalog item identified by SKU.
type Product struct {
	SKU               string    `json:"sku"                           db:"sku"`
	Name              string    `json:"name"                          db:"name"`
	Description       string    `json:"description,omitempty"         db:"description"`
	Price             *float64  `json:"price,omitempty"               db:"price"`
	Cost              *float64  `json:"cost,omitempty"                db:"cost"`
	ThumbnailURL      string    `json:"thumbnail_url,omitempty"       db:"thumbnail_url"`
	VariantID         *int      `json:"variant_id,omitempty"          db:"variant_id"`
	PrintfulVariantID string    `json:"printful_variant_id,omitempty" db:"printful_variant_id"`
	EtsyListingID     string    `json:"etsy_listing_id,omitempty"     db:"etsy_listing_id"`
	Quantity          *int      `json:"quantity,omitempty"            db:"quantity"`
	TaxonomyID        *int      `json:"taxonomy_id,omitempty"         db:"taxonomy_id"`
	Tags              []string  `json:"tags,omitempty"                db:"tags"`
	CreatedAt         time.Time `json:"created_at"                    db:"created_at"`
}

// ListingStatus is the lifecycle state of an Etsy listing.
type ListingStatus string

// Listing status constants.
const (
	ListingDraft    ListingStatus = "draft"
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
)

// ListingURLFor returns the public URL of an Etsy listing.
func ListingURLFor(listingID string) string {
	return "https://www.etsy.com/listing/" + listingID
}

// Listing is the local record of a listing created on Etsy.
type Listing struct {
	ID        int64         `json:"id"                  db:"id"`
	ListingID string        `json:"listing_id"          db:"listing_id"`
	SKU       string        `json:"sku,omitempty"       db:"sku"`
	ShopID    string        `json:"shop_id,omitempty"   db:"shop_id"`
	Title     string        `json:"title"               db:"title"`
	Price     *float64      `json:"price,omitempty"     db:"price"`
	Status    ListingStatus `json:"status"              db:"status"`
	EtsyURL   string        `json:"etsy_url,omitempty"  db:"etsy_url"`
	CreatedAt time.Time     `json:"created_at"          db:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
}

// Job names recorded in run logs.
const (
	JobTokenRefresh  = "token_refresh"
	JobPriceSync     = "sync_prices"
	JobInventorySync = "sync_inventory"
	JobListPending   = "list_to_etsy"
	JobOAuthCallback = "oauth_callback"
)

// Run log status values.
const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// RunLog records one execution of a background job or operator action.
type RunLog struct {
	ID        int64     `json:"id"         db:"id"`
	Job       string    `json:"job"        db:"job"`
	Status    string    `json:"status"     db:"status"`
	Message   string    `json:"message"    db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
