// Package store defines the datastore abstraction for automerch.
// All business logic depends on the Store interface, never on concrete
// implementations. PostgresStore backs production deployments and
// SQLiteStore backs local and dry-run use.
package store

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ListingQuery defines optional filters for listing queries.
type ListingQuery struct {
	ShopID  *string
	SKU     *string
	Status  *domain.ListingStatus
	Limit   int // default 50
	Offset  int
	OrderBy string // "created_at", "price", "title"
}

// Store defines all data access operations for automerch.
type Store interface {
	// Tokens
	GetToken(ctx context.Context, provider, shopID string) (*domain.Token, error)
	// SaveToken upserts the token by (provider, shop_id). When shop is
	// non-nil the shop record is created if missing, in the same transaction.
	SaveToken(ctx context.Context, t *domain.Token, shop *domain.Shop) error
	ListTokens(ctx context.Context, provider string) ([]domain.Token, error)

	// Shops
	GetShop(ctx context.Context, shopID string) (*domain.Shop, error)
	GetDefaultShop(ctx context.Context) (*domain.Shop, error)
	ListShops(ctx context.Context, activeOnly bool) ([]domain.Shop, error)
	UpsertShop(ctx context.Context, s *domain.Shop) error
	DeleteShop(ctx context.Context, shopID string) error
	SetDefaultShop(ctx context.Context, shopID string) error

	// Products
	UpsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, sku string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsWithoutListing(ctx context.Context, limit int) ([]domain.Product, error)
	UpdateProductListing(ctx context.Context, sku, listingID string) error
	UpdateProductPrice(ctx context.Context, sku string, price float64) error
	UpdateProductQuantity(ctx context.Context, sku string, quantity int) error
	UpdateProductPrintfulVariant(ctx context.Context, sku, variantID string) error

	// Listings
	UpsertListing(ctx context.Context, l *domain.Listing) error
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListings(ctx context.Context, q *ListingQuery) ([]domain.Listing, int, error)

	// Run logs
	InsertRunLog(ctx context.Context, r *domain.RunLog) error
	ListRunLogs(ctx context.Context, job string, limit int) ([]domain.RunLog, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
