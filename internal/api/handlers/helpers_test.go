package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/etsy"
	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	ctx := context.Background()
	s, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "automerch.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func seedShop(t *testing.T, s store.Store, shopID string, isDefault bool) {
	t.Helper()
	require.NoError(t, s.UpsertShop(context.Background(), &domain.Shop{
		ShopID:    shopID,
		ShopName:  "Shop " + shopID,
		IsActive:  true,
		IsDefault: isDefault,
	}))
}

func priceOf(v float64) *float64 { return &v }

// resolverFor returns a resolver that hands out api for every shop and
// records the shop ids it was asked for.
func resolverFor(api etsy.API, seen *[]string) etsy.Resolver {
	return etsy.ResolverFunc(func(shopID string) etsy.API {
		if seen != nil {
			*seen = append(*seen, shopID)
		}
		return api
	})
}
