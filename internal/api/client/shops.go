package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// ShopInput is the body for adding or updating a shop.
type ShopInput struct {
	ShopID      string `json:"shop_id"`
	ShopName    string `json:"shop_name,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsDefault   bool   `json:"is_default,omitempty"`
	ShopURL     string `json:"shop_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// ListShops returns the connected shops.
func (c *Client) ListShops(ctx context.Context, activeOnly bool) ([]domain.Shop, error) {
	var shops []domain.Shop
	q := map[string]string{}
	if activeOnly {
		q["active_only"] = strconv.FormatBool(true)
	}
	if err := c.get(ctx, "/api/v1/shops", q, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// GetShop returns one shop.
func (c *Client) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.get(ctx, "/api/v1/shops/"+url.PathEscape(shopID), nil, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetDefaultShop returns the default shop.
func (c *Client) GetDefaultShop(ctx context.Context) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.get(ctx, "/api/v1/shops/default", nil, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// SaveShop adds or updates a shop.
func (c *Client) SaveShop(ctx context.Context, in *ShopInput) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.post(ctx, "/api/v1/shops", in, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// DeleteShop removes a shop.
func (c *Client) DeleteShop(ctx context.Context, shopID string) error {
	return c.del(ctx, "/api/v1/shops/"+url.PathEscape(shopID))
}

// SetDefaultShop makes the shop the default.
func (c *Client) SetDefaultShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.post(ctx, "/api/v1/shops/"+url.PathEscape(shopID)+"/set-default", nil, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}
