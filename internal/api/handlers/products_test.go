package handlers_test

import (
	"context"
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
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func TestProducts_CreateListGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(s, pfmocks.NewMockAPI(t), quietLogger()))

	resp := api.Post("/api/v1/products", map[string]any{
		"sku":   "MUG-11",
		"name":  "Cat Mug",
		"price": 12.5,
		"tags":  []string{"mug", "cat"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)
	var list []domain.Product
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "MUG-11", list[0].SKU)

	resp = api.Get("/api/v1/products/MUG-11")
	require.Equal(t, http.StatusOK, resp.Code)
	var p domain.Product
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &p))
	require.NotNil(t, p.Price)
	assert.InDelta(t, 12.5, *p.Price, 0.001)
	assert.Equal(t, []string{"mug", "cat"}, p.Tags)

	resp = api.Get("/api/v1/products/NOPE")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProducts_CreatePrintful(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		setupMock  func(m *pfmocks.MockAPI)
		wantStatus int
		wantStored string
	}{
		{
			name: "creates sync product and stores variant id",
			body: map[string]any{
				"sku":           "MUG-11",
				"name":          "Cat Mug",
				"price":         14.99,
				"variant_id":    4011,
				"thumbnail_url": "https://cdn.example.com/cat.png",
			},
			setupMock: func(m *pfmocks.MockAPI) {
				m.EXPECT().CreateProduct(mock.Anything, mock.MatchedBy(func(in printful.ProductInput) bool {
					return in.SKU == "MUG-11" && in.VariantID == 4011 && in.RetailPrice == 14.99 &&
						in.Thumbnail == "https://cdn.example.com/cat.png"
				})).Return(&printful.SyncResult{
					ProductID:   "12345",
					ProductName: "Cat Mug",
					VariantID:   "987",
				}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantStored: "987",
		},
		{
			name:       "variant id required",
			body:       map[string]any{"sku": "MUG-11", "name": "Cat Mug"},
			setupMock:  func(_ *pfmocks.MockAPI) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "fatal provider error maps to 502",
			body: map[string]any{"sku": "MUG-11", "name": "Cat Mug", "variant_id": 4011},
			setupMock: func(m *pfmocks.MockAPI) {
				m.EXPECT().CreateProduct(mock.Anything, mock.Anything).Return(nil, &provider.ProviderError{
					Provider:   printful.ProviderName,
					StatusCode: http.StatusBadRequest,
					Body:       `{"error":"bad variant"}`,
					Kind:       provider.KindFatal,
				}).Once()
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "missing api key maps to 500",
			body: map[string]any{"sku": "MUG-11", "name": "Cat Mug", "variant_id": 4011},
			setupMock: func(m *pfmocks.MockAPI) {
				m.EXPECT().CreateProduct(mock.Anything, mock.Anything).
					Return(nil, provider.ErrConfiguration).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestStore(t)
			pf := pfmocks.NewMockAPI(t)
			tt.setupMock(pf)

			_, api := humatest.New(t)
			handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(s, pf, quietLogger()))

			resp := api.Post("/api/v1/products/printful", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			p, err := s.GetProduct(context.Background(), "MUG-11")
			if tt.wantStored == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStored, p.PrintfulVariantID)
			assert.Contains(t, resp.Body.String(), `"sync_product_id":"12345"`)
		})
	}
}
