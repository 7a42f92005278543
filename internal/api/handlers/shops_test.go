package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/api/handlers"
	"github.com/donaldgifford/automerch/internal/store"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func newShopsAPI(t *testing.T) (humatest.TestAPI, *store.SQLiteStore) {
	t.Helper()
	s := newTestStore(t)
	_, api := humatest.New(t)
	handlers.RegisterShopRoutes(api, handlers.NewShopsHandler(s))
	return api, s
}

func TestShops_CreateAndGet(t *testing.T) {
	t.Parallel()

	api, _ := newShopsAPI(t)

	resp := api.Post("/api/v1/shops", map[string]any{
		"shop_id":   "111",
		"shop_name": "Mugs & Co",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created domain.Shop
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "111", created.ShopID)
	assert.True(t, created.IsActive)
	assert.Equal(t, "https://www.etsy.com/shop/111", created.ShopURL)

	resp = api.Get("/api/v1/shops/111")
	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.Shop
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "Mugs & Co", got.ShopName)
}

func TestShops_Validation(t *testing.T) {
	t.Parallel()

	api, _ := newShopsAPI(t)

	resp := api.Post("/api/v1/shops", map[string]any{"shop_name": "no id"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestShops_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "all shops", query: "", wantIDs: []string{"111", "222"}},
		{name: "active only", query: "?active_only=true", wantIDs: []string{"111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api, s := newShopsAPI(t)
			seedShop(t, s, "111", false)
			require.NoError(t, s.UpsertShop(context.Background(), &domain.Shop{ShopID: "222", IsActive: false}))

			resp := api.Get("/api/v1/shops" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code)

			var shops []domain.Shop
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &shops))

			ids := make([]string, 0, len(shops))
			for _, sh := range shops {
				ids = append(ids, sh.ShopID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestShops_EmptyListIsArray(t *testing.T) {
	t.Parallel()

	api, _ := newShopsAPI(t)

	resp := api.Get("/api/v1/shops")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestShops_SetDefault(t *testing.T) {
	t.Parallel()

	api, s := newShopsAPI(t)
	seedShop(t, s, "A", true)
	seedShop(t, s, "B", false)

	resp := api.Post("/api/v1/shops/B/set-default")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/shops/default")
	require.Equal(t, http.StatusOK, resp.Code)

	var def domain.Shop
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &def))
	assert.Equal(t, "B", def.ShopID)

	shops, err := s.ListShops(context.Background(), false)
	require.NoError(t, err)
	defaults := 0
	for _, sh := range shops {
		if sh.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestShops_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(api humatest.TestAPI) int
	}{
		{
			name: "get unknown shop",
			call: func(api humatest.TestAPI) int { return api.Get("/api/v1/shops/nope").Code },
		},
		{
			name: "no default shop",
			call: func(api humatest.TestAPI) int { return api.Get("/api/v1/shops/default").Code },
		},
		{
			name: "delete unknown shop",
			call: func(api humatest.TestAPI) int { return api.Delete("/api/v1/shops/nope").Code },
		},
		{
			name: "set default on unknown shop",
			call: func(api humatest.TestAPI) int { return api.Post("/api/v1/shops/nope/set-default").Code },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api, _ := newShopsAPI(t)
			assert.Equal(t, http.StatusNotFound, tt.call(api))
		})
	}
}

func TestShops_Delete(t *testing.T) {
	t.Parallel()

	api, s := newShopsAPI(t)
	seedShop(t, s, "111", false)

	resp := api.Delete("/api/v1/shops/111")
	require.Equal(t, http.StatusNoContent, resp.Code)

	_, err := s.GetShop(context.Background(), "111")
	require.ErrorIs(t, err, store.ErrNotFound)
}
