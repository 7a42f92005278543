package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "automerch.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(ctx))
	return s
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newSQLiteStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteStore_SaveToken_OneRowPerProviderShop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	first := &domain.Token{
		Provider:     domain.ProviderEtsy,
		ShopID:       "shop-1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    &expires,
	}
	require.NoError(t, s.SaveToken(ctx, first, nil))
	assert.NotZero(t, first.ID)
	assert.Nil(t, first.UpdatedAt)

	second := &domain.Token{
		Provider:     domain.ProviderEtsy,
		ShopID:       "shop-1",
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
	}
	require.NoError(t, s.SaveToken(ctx, second, nil))
	assert.Equal(t, first.ID, second.ID)
	assert.NotNil(t, second.UpdatedAt)

	tokens, err := s.ListTokens(ctx, domain.ProviderEtsy)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "access-2", tokens[0].AccessToken)
	assert.Equal(t, "refresh-2", tokens[0].RefreshToken)
	assert.Nil(t, tokens[0].ExpiresAt)
}

func TestSQLiteStore_LegacyTokenIsDistinctFromShopTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.SaveToken(ctx, &domain.Token{
		Provider: domain.ProviderEtsy, AccessToken: "legacy",
	}, nil))
	require.NoError(t, s.SaveToken(ctx, &domain.Token{
		Provider: domain.ProviderEtsy, ShopID: "shop-1", AccessToken: "scoped",
	}, nil))
	require.NoError(t, s.SaveToken(ctx, &domain.Token{
		Provider: domain.ProviderEtsy, AccessToken: "legacy-2",
	}, nil))

	legacy, err := s.GetToken(ctx, domain.ProviderEtsy, "")
	require.NoError(t, err)
	assert.Equal(t, "legacy-2", legacy.AccessToken)

	scoped, err := s.GetToken(ctx, domain.ProviderEtsy, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, "scoped", scoped.AccessToken)

	_, err = s.GetToken(ctx, domain.ProviderEtsy, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_SaveToken_EnsuresShop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	tok := &domain.Token{Provider: domain.ProviderEtsy, ShopID: "123", AccessToken: "a"}
	require.NoError(t, s.SaveToken(ctx, tok, &domain.Shop{ShopID: "123", ShopName: "Mugs"}))

	sh, err := s.GetShop(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Mugs", sh.ShopName)
	assert.Equal(t, "https://www.etsy.com/shop/123", sh.ShopURL)
	assert.True(t, sh.IsActive)
	assert.False(t, sh.IsDefault)

	// A later exchange without a name keeps the known name.
	require.NoError(t, s.SaveToken(ctx, tok, &domain.Shop{ShopID: "123"}))
	sh, err = s.GetShop(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Mugs", sh.ShopName)
}

func TestSQLiteStore_SetDefaultShop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "A", ShopName: "Alpha", IsActive: true, IsDefault: true}))
	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "B", ShopName: "Beta", IsActive: true}))

	require.NoError(t, s.SetDefaultShop(ctx, "B"))

	shops, err := s.ListShops(ctx, false)
	require.NoError(t, err)
	require.Len(t, shops, 2)

	var defaults []string
	for _, sh := range shops {
		if sh.IsDefault {
			defaults = append(defaults, sh.ShopID)
		}
	}
	assert.Equal(t, []string{"B"}, defaults)
	assert.Equal(t, "B", shops[0].ShopID, "default shop sorts first")

	def, err := s.GetDefaultShop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", def.ShopID)

	err = s.SetDefaultShop(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	def, err = s.GetDefaultShop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", def.ShopID, "failed switch leaves the default unchanged")
}

func TestSQLiteStore_UpsertShop_DefaultClearsOthers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "A", IsActive: true, IsDefault: true}))
	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "B", IsActive: true, IsDefault: true}))

	a, err := s.GetShop(ctx, "A")
	require.NoError(t, err)
	assert.False(t, a.IsDefault)

	b, err := s.GetShop(ctx, "B")
	require.NoError(t, err)
	assert.True(t, b.IsDefault)
}

func TestSQLiteStore_ListShops_ActiveOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "A", IsActive: true}))
	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "B", IsActive: false}))

	active, err := s.ListShops(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].ShopID)

	all, err := s.ListShops(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStore_DeleteShop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.UpsertShop(ctx, &domain.Shop{ShopID: "A", IsActive: true}))
	require.NoError(t, s.DeleteShop(ctx, "A"))

	_, err := s.GetShop(ctx, "A")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.DeleteShop(ctx, "A"), store.ErrNotFound)

	_, err = s.GetDefaultShop(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_Products(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	mug := &domain.Product{
		SKU:        "MUG-1",
		Name:       "Mug",
		Price:      floatPtr(12.5),
		VariantID:  intPtr(4011),
		TaxonomyID: intPtr(1125),
		Tags:       []string{"mug", "coffee"},
	}
	listed := &domain.Product{SKU: "TEE-1", Name: "Tee", EtsyListingID: "999"}
	require.NoError(t, s.UpsertProduct(ctx, mug))
	require.NoError(t, s.UpsertProduct(ctx, listed))

	got, err := s.GetProduct(ctx, "MUG-1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 12.5, *got.Price, 0.0001)
	assert.Nil(t, got.Cost)
	assert.Nil(t, got.Quantity)
	require.NotNil(t, got.VariantID)
	assert.Equal(t, 4011, *got.VariantID)
	assert.Equal(t, []string{"mug", "coffee"}, got.Tags)

	pending, err := s.ListProductsWithoutListing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "MUG-1", pending[0].SKU)

	require.NoError(t, s.UpdateProductListing(ctx, "MUG-1", "12345"))
	require.NoError(t, s.UpdateProductPrice(ctx, "MUG-1", 12.99))
	require.NoError(t, s.UpdateProductQuantity(ctx, "MUG-1", 999))
	require.NoError(t, s.UpdateProductPrintfulVariant(ctx, "MUG-1", "pf-1"))

	got, err = s.GetProduct(ctx, "MUG-1")
	require.NoError(t, err)
	assert.Equal(t, "12345", got.EtsyListingID)
	assert.InDelta(t, 12.99, *got.Price, 0.0001)
	assert.Equal(t, 999, *got.Quantity)
	assert.Equal(t, "pf-1", got.PrintfulVariantID)

	pending, err = s.ListProductsWithoutListing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.ErrorIs(t, s.UpdateProductPrice(ctx, "NOPE", 1), store.ErrNotFound)
	_, err = s.GetProduct(ctx, "NOPE")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_Listings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSQLiteStore(t)

	l := &domain.Listing{
		ListingID: "111",
		SKU:       "MUG-1",
		ShopID:    "shop-1",
		Title:     "Mug",
		Price:     floatPtr(9.99),
		EtsyURL:   "https://www.etsy.com/listing/111",
	}
	require.NoError(t, s.UpsertListing(ctx, l))
	assert.NotZero(t, l.ID)
	assert.Equal(t, domain.ListingDraft, l.Status)

	require.NoError(t, s.UpsertListing(ctx, &domain.Listing{
		ListingID: "222", SKU: "TEE-1", ShopID: "shop-2", Title: "Tee", Status: domain.ListingActive,
	}))

	l.Title = "Big Mug"
	require.NoError(t, s.UpsertListing(ctx, l))
	assert.NotNil(t, l.UpdatedAt)

	got, err := s.GetListing(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", got.Title)
	assert.InDelta(t, 9.99, *got.Price, 0.0001)

	shop := "shop-1"
	listings, total, err := s.ListListings(ctx, &store.ListingQuery{ShopID: &shop})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "111", listings[0].ListingID)

	listings, total, err = s.ListListings(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, listings, 2)

	_, err = s.GetListing(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_RunLogs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	s, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "runs.db"),
		store.WithSQLiteNowFunc(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Migrate(ctx))

	for _, job := range []string{domain.JobPriceSync, domain.JobInventorySync, domain.JobPriceSync} {
		r := &domain.RunLog{Job: job, Status: domain.RunStatusOK, Message: "done"}
		require.NoError(t, s.InsertRunLog(ctx, r))
		assert.NotZero(t, r.ID)
	}

	logs, err := s.ListRunLogs(ctx, domain.JobPriceSync, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].CreatedAt.After(logs[1].CreatedAt), "newest first")

	all, err := s.ListRunLogs(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.JobPriceSync, all[0].Job)
}
