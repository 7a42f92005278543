package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// ProductInput is the body for adding a product.
type ProductInput struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	VariantID    *int     `json:"variant_id,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	TaxonomyID   *int     `json:"taxonomy_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DesignURL    string   `json:"design_url,omitempty"`
}

// PrintfulProduct is the result of creating a product on Printful.
type PrintfulProduct struct {
	Product       *domain.Product `json:"product"`
	SyncProductID string          `json:"sync_product_id"`
	SyncVariantID string          `json:"sync_variant_id"`
}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/v1/products/"+url.PathEscape(sku), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProduct adds or updates a product.
func (c *Client) SaveProduct(ctx context.Context, in *ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.post(ctx, "/api/v1/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePrintfulProduct creates the product on Printful and stores it.
func (c *Client) CreatePrintfulProduct(ctx context.Context, in *ProductInput) (*PrintfulProduct, error) {
	var out PrintfulProduct
	if err := c.post(ctx, "/api/v1/products/printful", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
