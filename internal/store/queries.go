package store

// SQL query constants for PostgresStore, organized by entity.

// Token queries.
const (
	queryGetToken = `
		SELECT id, provider, shop_id, access_token, refresh_token,
			expires_at, created_at, updated_at
		FROM oauth_tokens
		WHERE provider = $1 AND shop_id = $2`

	queryListTokens = `
		SELECT id, provider, shop_id, access_token, refresh_token,
			expires_at, created_at, updated_at
		FROM oauth_tokens
		WHERE provider = $1
		ORDER BY shop_id`

	queryUpsertToken = `
		INSERT INTO oauth_tokens (
			provider, shop_id, access_token, refresh_token, expires_at, created_at
		) VALUES (
			@provider, @shop_id, @access_token, @refresh_token, @expires_at, now()
		)
		ON CONFLICT (provider, shop_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		RETURNING id, created_at, updated_at`
)

// Shop queries.
const (
	shopColumns = `shop_id, shop_name, is_active, is_default, shop_url,
		description, created_at, updated_at`

	queryGetShop = `SELECT ` + shopColumns + ` FROM etsy_shops WHERE shop_id = $1`

	queryGetDefaultShop = `SELECT ` + shopColumns + `
		FROM etsy_shops WHERE is_default LIMIT 1`

	queryListShops = `SELECT ` + shopColumns + `
		FROM etsy_shops ORDER BY is_default DESC, shop_name, shop_id`

	queryListActiveShops = `SELECT ` + shopColumns + `
		FROM etsy_shops WHERE is_active ORDER BY is_default DESC, shop_name, shop_id`

	queryUpsertShop = `
		INSERT INTO etsy_shops (
			shop_id, shop_name, is_active, is_default, shop_url, description, created_at
		) VALUES (
			@shop_id, @shop_name, @is_active, @is_default, @shop_url, @description, now()
		)
		ON CONFLICT (shop_id) DO UPDATE SET
			shop_name = EXCLUDED.shop_name,
			is_active = EXCLUDED.is_active,
			is_default = EXCLUDED.is_default,
			shop_url = EXCLUDED.shop_url,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING created_at, updated_at`

	queryEnsureShop = `
		INSERT INTO etsy_shops (shop_id, shop_name, is_active, shop_url, created_at)
		VALUES ($1, $2, TRUE, $3, now())
		ON CONFLICT (shop_id) DO UPDATE SET
			shop_name = COALESCE(NULLIF(EXCLUDED.shop_name, ''), etsy_shops.shop_name),
			is_active = TRUE,
			updated_at = now()`

	queryClearOtherDefaults = `
		UPDATE etsy_shops SET is_default = FALSE, updated_at = now()
		WHERE is_default AND shop_id <> $1`

	querySetDefaultShop = `
		UPDATE etsy_shops SET is_default = (shop_id = $1), updated_at = now()
		WHERE is_default OR shop_id = $1`

	queryShopExists = `SELECT EXISTS(SELECT 1 FROM etsy_shops WHERE shop_id = $1)`

	queryDeleteShop = `DELETE FROM etsy_shops WHERE shop_id = $1`
)

// Product queries.
const (
	productColumns = `sku, name, description, price, cost, thumbnail_url,
		variant_id, printful_variant_id, etsy_listing_id, quantity, taxonomy_id,
		tags, created_at`

	queryUpsertProduct = `
		INSERT INTO products (
			sku, name, description, price, cost, thumbnail_url, variant_id,
			printful_variant_id, etsy_listing_id, quantity, taxonomy_id, tags, created_at
		) VALUES (
			@sku, @name, @description, @price, @cost, @thumbnail_url, @variant_id,
			@printful_variant_id, @etsy_listing_id, @quantity, @taxonomy_id, @tags, now()
		)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			cost = EXCLUDED.cost,
			thumbnail_url = EXCLUDED.thumbnail_url,
			variant_id = EXCLUDED.variant_id,
			printful_variant_id = EXCLUDED.printful_variant_id,
			etsy_listing_id = EXCLUDED.etsy_listing_id,
			quantity = EXCLUDED.quantity,
			taxonomy_id = EXCLUDED.taxonomy_id,
			tags = EXCLUDED.tags
		RETURNING created_at`

	queryGetProduct = `SELECT ` + productColumns + ` FROM products WHERE sku = $1`

	queryListProducts = `SELECT ` + productColumns + `
		FROM products ORDER BY created_at DESC, sku`

	queryListProductsWithoutListing = `SELECT ` + productColumns + `
		FROM products WHERE etsy_listing_id = ''
		ORDER BY created_at, sku LIMIT $1`

	queryUpdateProductListing = `UPDATE products SET etsy_listing_id = $2 WHERE sku = $1`

	queryUpdateProductPrice = `UPDATE products SET price = $2 WHERE sku = $1`

	queryUpdateProductQuantity = `UPDATE products SET quantity = $2 WHERE sku = $1`

	queryUpdateProductPrintfulVariant = `UPDATE products SET printful_variant_id = $2 WHERE sku = $1`
)

// Listing queries.
const (
	queryUpsertListing = `
		INSERT INTO listings (
			listing_id, sku, shop_id, title, price, status, etsy_url, created_at
		) VALUES (
			@listing_id, @sku, @shop_id, @title, @price, @status, @etsy_url, now()
		)
		ON CONFLICT (listing_id) DO UPDATE SET
			sku = EXCLUDED.sku,
			shop_id = EXCLUDED.shop_id,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			status = EXCLUDED.status,
			etsy_url = EXCLUDED.etsy_url,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	queryGetListing = baseListingsSelect + ` WHERE listing_id = $1`
)

// Run log queries.
const (
	queryInsertRunLog = `
		INSERT INTO run_logs (job, status, message, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at`

	queryListRunLogs = `
		SELECT id, job, status, message, created_at
		FROM run_logs
		WHERE ($1 = '' OR job = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
)
