package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/automerch/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// A poolSize of zero uses the default.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize) //nolint:gosec // small config value
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// GetToken returns the token for a provider and shop ("" for the legacy token).
func (s *PostgresStore) GetToken(ctx context.Context, provider, shopID string) (*domain.Token, error) {
	t := &domain.Token{}
	err := scanToken(s.pool.QueryRow(ctx, queryGetToken, provider, shopID), t)
	if err != nil {
		return nil, notFound(err, "token")
	}
	return t, nil
}

// ListTokens returns every stored token for a provider.
func (s *PostgresStore) ListTokens(ctx context.Context, provider string) ([]domain.Token, error) {
	rows, err := s.pool.Query(ctx, queryListTokens, provider)
	if err != nil {
		return nil, fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := scanToken(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// SaveToken upserts a token and, when shop is given, ensures the shop exists.
func (s *PostgresStore) SaveToken(ctx context.Context, t *domain.Token, shop *domain.Shop) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	args := pgx.NamedArgs{
		"provider":      t.Provider,
		"shop_id":       t.ShopID,
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
		"expires_at":    t.ExpiresAt,
	}
	if err := tx.QueryRow(ctx, queryUpsertToken, args).Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upserting token: %w", err)
	}

	if shop != nil {
		url := shop.ShopURL
		if url == "" {
			url = domain.ShopURLFor(shop.ShopID)
		}
		if _, err := tx.Exec(ctx, queryEnsureShop, shop.ShopID, shop.ShopName, url); err != nil {
			return fmt.Errorf("ensuring shop: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing token: %w", err)
	}
	return nil
}

// GetShop retrieves a shop by its Etsy shop ID.
func (s *PostgresStore) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	sh := &domain.Shop{}
	if err := scanShop(s.pool.QueryRow(ctx, queryGetShop, shopID), sh); err != nil {
		return nil, notFound(err, "shop")
	}
	return sh, nil
}

// GetDefaultShop returns the shop flagged as default.
func (s *PostgresStore) GetDefaultShop(ctx context.Context) (*domain.Shop, error) {
	sh := &domain.Shop{}
	if err := scanShop(s.pool.QueryRow(ctx, queryGetDefaultShop), sh); err != nil {
		return nil, notFound(err, "default shop")
	}
	return sh, nil
}

// ListShops returns all shops, optionally only active ones. The default shop sorts first.
func (s *PostgresStore) ListShops(ctx context.Context, activeOnly bool) ([]domain.Shop, error) {
	query := queryListShops
	if activeOnly {
		query = queryListActiveShops
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		var sh domain.Shop
		if err := scanShop(rows, &sh); err != nil {
			return nil, fmt.Errorf("scanning shop: %w", err)
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

// UpsertShop inserts or updates a shop. A shop saved as default clears the
// flag on every other shop in the same transaction.
func (s *PostgresStore) UpsertShop(ctx context.Context, sh *domain.Shop) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if sh.IsDefault {
		if _, err := tx.Exec(ctx, queryClearOtherDefaults, sh.ShopID); err != nil {
			return fmt.Errorf("clearing default shops: %w", err)
		}
	}

	args := pgx.NamedArgs{
		"shop_id":     sh.ShopID,
		"shop_name":   sh.ShopName,
		"is_active":   sh.IsActive,
		"is_default":  sh.IsDefault,
		"shop_url":    sh.ShopURL,
		"description": sh.Description,
	}
	if err := tx.QueryRow(ctx, queryUpsertShop, args).Scan(&sh.CreatedAt, &sh.UpdatedAt); err != nil {
		return fmt.Errorf("upserting shop: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing shop: %w", err)
	}
	return nil
}

// DeleteShop removes a shop record. Its token, if any, is left in place.
func (s *PostgresStore) DeleteShop(ctx context.Context, shopID string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteShop, shopID)
	if err != nil {
		return fmt.Errorf("deleting shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shop %s: %w", shopID, ErrNotFound)
	}
	return nil
}

// SetDefaultShop makes shopID the only default shop. The flag moves in a
// single UPDATE so no reader observes zero or two defaults.
func (s *PostgresStore) SetDefaultShop(ctx context.Context, shopID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var exists bool
	if err := tx.QueryRow(ctx, queryShopExists, shopID).Scan(&exists); err != nil {
		return fmt.Errorf("checking shop: %w", err)
	}
	if !exists {
		return fmt.Errorf("shop %s: %w", shopID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx, querySetDefaultShop, shopID); err != nil {
		return fmt.Errorf("setting default shop: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing default shop: %w", err)
	}
	return nil
}

// UpsertProduct inserts or updates a product by SKU.
func (s *PostgresStore) UpsertProduct(ctx context.Context, p *domain.Product) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	args := pgx.NamedArgs{
		"sku":                 p.SKU,
		"name":                p.Name,
		"description":         p.Description,
		"price":               p.Price,
		"cost":                p.Cost,
		"thumbnail_url":       p.ThumbnailURL,
		"variant_id":          p.VariantID,
		"printful_variant_id": p.PrintfulVariantID,
		"etsy_listing_id":     p.EtsyListingID,
		"quantity":            p.Quantity,
		"taxonomy_id":         p.TaxonomyID,
		"tags":                tags,
	}

	if err := s.pool.QueryRow(ctx, queryUpsertProduct, args).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by SKU.
func (s *PostgresStore) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	p := &domain.Product{}
	if err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, sku), p); err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

// ListProducts returns all products, newest first.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queryProducts(ctx, queryListProducts)
}

// ListProductsWithoutListing returns up to limit products not yet listed on Etsy.
func (s *PostgresStore) ListProductsWithoutListing(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.queryProducts(ctx, queryListProductsWithoutListing, limit)
}

// UpdateProductListing links a product to its Etsy listing.
func (s *PostgresStore) UpdateProductListing(ctx context.Context, sku, listingID string) error {
	return s.execProduct(ctx, "updating product listing", queryUpdateProductListing, sku, listingID)
}

// UpdateProductPrice sets a product's price.
func (s *PostgresStore) UpdateProductPrice(ctx context.Context, sku string, price float64) error {
	return s.execProduct(ctx, "updating product price", queryUpdateProductPrice, sku, price)
}

// UpdateProductQuantity sets a product's stock quantity.
func (s *PostgresStore) UpdateProductQuantity(ctx context.Context, sku string, quantity int) error {
	return s.execProduct(ctx, "updating product quantity", queryUpdateProductQuantity, sku, quantity)
}

// UpdateProductPrintfulVariant records the Printful sync variant created for a product.
func (s *PostgresStore) UpdateProductPrintfulVariant(ctx context.Context, sku, variantID string) error {
	return s.execProduct(ctx, "updating printful variant", queryUpdateProductPrintfulVariant, sku, variantID)
}

// UpsertListing inserts or updates a listing by its Etsy listing ID.
func (s *PostgresStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	status := l.Status
	if status == "" {
		status = domain.ListingDraft
	}

	args := pgx.NamedArgs{
		"listing_id": l.ListingID,
		"sku":        l.SKU,
		"shop_id":    l.ShopID,
		"title":      l.Title,
		"price":      l.Price,
		"status":     string(status),
		"etsy_url":   l.EtsyURL,
	}

	if err := s.pool.QueryRow(ctx, queryUpsertListing, args).Scan(
		&l.ID, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upserting listing: %w", err)
	}
	l.Status = status
	return nil
}

// GetListing retrieves a listing by its Etsy listing ID.
func (s *PostgresStore) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	l := &domain.Listing{}
	if err := scanListing(s.pool.QueryRow(ctx, queryGetListing, listingID), l); err != nil {
		return nil, notFound(err, "listing")
	}
	return l, nil
}

// ListListings queries listings with optional filters, returning results and total count.
func (s *PostgresStore) ListListings(
	ctx context.Context,
	q *ListingQuery,
) ([]domain.Listing, int, error) {
	if q == nil {
		q = &ListingQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, 0, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, total, nil
}

// InsertRunLog records a job outcome.
func (s *PostgresStore) InsertRunLog(ctx context.Context, r *domain.RunLog) error {
	if err := s.pool.QueryRow(ctx, queryInsertRunLog, r.Job, r.Status, r.Message).Scan(
		&r.ID, &r.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting run log: %w", err)
	}
	return nil
}

// ListRunLogs returns the most recent run logs, newest first. An empty job
// returns logs for every job.
func (s *PostgresStore) ListRunLogs(ctx context.Context, job string, limit int) ([]domain.RunLog, error) {
	rows, err := s.pool.Query(ctx, queryListRunLogs, job, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.RunLog
	for rows.Next() {
		var r domain.RunLog
		if err := rows.Scan(&r.ID, &r.Job, &r.Status, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run log: %w", err)
		}
		logs = append(logs, r)
	}
	return logs, rows.Err()
}

func (s *PostgresStore) queryProducts(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) execProduct(ctx context.Context, op, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: product %v: %w", op, args[0], ErrNotFound)
	}
	return nil
}

// notFound maps a missing row to ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("querying %s: %w", what, err)
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanToken(row scannable, t *domain.Token) error {
	return row.Scan(
		&t.ID, &t.Provider, &t.ShopID, &t.AccessToken, &t.RefreshToken,
		&t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt,
	)
}

func scanShop(row scannable, sh *domain.Shop) error {
	return row.Scan(
		&sh.ShopID, &sh.ShopName, &sh.IsActive, &sh.IsDefault, &sh.ShopURL,
		&sh.Description, &sh.CreatedAt, &sh.UpdatedAt,
	)
}

func scanProduct(row scannable, p *domain.Product) error {
	return row.Scan(
		&p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost, &p.ThumbnailURL,
		&p.VariantID, &p.PrintfulVariantID, &p.EtsyListingID, &p.Quantity, &p.TaxonomyID,
		&p.Tags, &p.CreatedAt,
	)
}

func scanListing(row scannable, l *domain.Listing) error {
	return row.Scan(
		&l.ID, &l.ListingID, &l.SKU, &l.ShopID, &l.Title, &l.Price,
		&l.Status, &l.EtsyURL, &l.CreatedAt, &l.UpdatedAt,
	)
}
