package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/api/handlers"
	"github.com/donaldgifford/automerch/internal/printful"
	pfmocks "github.com/donaldgifford/automerch/internal/printful/mocks"
	"github.com/donaldgifford/automerch/internal/provider"
)

func TestPrintful_StoreInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		info       *printful.StoreInfo
		err        error
		wantStatus int
		wantName   string
	}{
		{
			name:       "returns store",
			info:       &printful.StoreInfo{Name: "Mugs & Co", Currency: "USD"},
			wantStatus: http.StatusOK,
			wantName:   "Mugs & Co",
		},
		{
			name: "transient failure maps to 503",
			err: &provider.ProviderError{
				Provider:   printful.ProviderName,
				StatusCode: http.StatusBadGateway,
				Attempts:   3,
				Kind:       provider.KindTransient,
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pf := pfmocks.NewMockAPI(t)
			pf.EXPECT().GetStoreInfo(mock.Anything).Return(tt.info, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterPrintfulRoutes(api, handlers.NewPrintfulHandler(pf))

			resp := api.Get("/api/v1/printful/store")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantName != "" {
				var got printful.StoreInfo
				require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
				assert.Equal(t, tt.wantName, got.Name)
				assert.Equal(t, "USD", got.Currency)
			}
		})
	}
}

func TestPrintful_CatalogVariants(t *testing.T) {
	t.Parallel()

	pf := pfmocks.NewMockAPI(t)
	pf.EXPECT().GetCatalogVariants(mock.Anything, 19).Return([]printful.CatalogVariant{
		{ID: 4011, Name: "11oz Mug", Color: "White"},
		{ID: 4012, Name: "15oz Mug", Color: "White"},
	}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterPrintfulRoutes(api, handlers.NewPrintfulHandler(pf))

	resp := api.Get("/api/v1/printful/catalog/19/variants")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got []printful.CatalogVariant
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 4011, got[0].ID)
}

func TestPrintful_Orders(t *testing.T) {
	t.Parallel()

	pf := pfmocks.NewMockAPI(t)
	pf.EXPECT().GetOrders(mock.Anything, 5, 10).Return([]printful.Order{
		{ID: provider.ID("77"), Status: "fulfilled"},
	}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterPrintfulRoutes(api, handlers.NewPrintfulHandler(pf))

	resp := api.Get("/api/v1/printful/orders?limit=5&offset=10")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"status":"fulfilled"`)
}
