package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	domain "github.com/donaldgifford/automerch/pkg/types"
)

// sqliteTimeLayout is fixed-width so that lexicographic order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)" +
	"&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"

// SQLiteStore implements Store on an embedded SQLite database. Timestamps are
// stored as UTC TEXT and tags as a JSON array.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLiteOption configures the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteNowFunc overrides the clock used for timestamps.
func WithSQLiteNowFunc(f func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		s.now = f
	}
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path.
// The special path ":memory:" opens a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		dsn = path + sqlitePragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite serializes writers; one connection also keeps :memory: coherent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close() //nolint:errcheck // nothing useful to do on close failure
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runSQLiteMigrations(ctx, s.db)
}

// GetToken returns the token for a provider and shop ("" for the legacy token).
func (s *SQLiteStore) GetToken(ctx context.Context, provider, shopID string) (*domain.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider, shop_id, access_token, refresh_token, expires_at, created_at, updated_at
		FROM oauth_tokens WHERE provider = ?1 AND shop_id = ?2`, provider, shopID)

	t := &domain.Token{}
	if err := scanSQLiteToken(row, t); err != nil {
		return nil, sqliteNotFound(err, "token")
	}
	return t, nil
}

// ListTokens returns every stored token for a provider.
func (s *SQLiteStore) ListTokens(ctx context.Context, provider string) ([]domain.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, shop_id, access_token, refresh_token, expires_at, created_at, updated_at
		FROM oauth_tokens WHERE provider = ?1 ORDER BY shop_id`, provider)
	if err != nil {
		return nil, fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := scanSQLiteToken(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// SaveToken upserts a token and, when shop is given, ensures the shop exists.
func (s *SQLiteStore) SaveToken(ctx context.Context, t *domain.Token, shop *domain.Shop) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := formatTime(s.now())

	var createdAt string
	var updatedAt sql.NullString
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO oauth_tokens (provider, shop_id, access_token, refresh_token, expires_at, created_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6)
		ON CONFLICT (provider, shop_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = ?6
		RETURNING id, created_at, updated_at`,
		t.Provider, t.ShopID, t.AccessToken, t.RefreshToken, formatNullTime(t.ExpiresAt), now,
	).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return fmt.Errorf("upserting token: %w", err)
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	if t.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return err
	}

	if shop != nil {
		url := shop.ShopURL
		if url == "" {
			url = domain.ShopURLFor(shop.ShopID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO etsy_shops (shop_id, shop_name, is_active, is_default, shop_url, created_at)
			VALUES (?1, ?2, 1, 0, ?3, ?4)
			ON CONFLICT (shop_id) DO UPDATE SET
				shop_name = COALESCE(NULLIF(excluded.shop_name, ''), etsy_shops.shop_name),
				is_active = 1,
				updated_at = ?4`,
			shop.ShopID, shop.ShopName, url, now,
		); err != nil {
			return fmt.Errorf("ensuring shop: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing token: %w", err)
	}
	return nil
}

const sqliteShopColumns = `shop_id, shop_name, is_active, is_default, shop_url,
	description, created_at, updated_at`

// GetShop retrieves a shop by its Etsy shop ID.
func (s *SQLiteStore) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteShopColumns+` FROM etsy_shops WHERE shop_id = ?1`, shopID)

	sh := &domain.Shop{}
	if err := scanSQLiteShop(row, sh); err != nil {
		return nil, sqliteNotFound(err, "shop")
	}
	return sh, nil
}

// GetDefaultShop returns the shop flagged as default.
func (s *SQLiteStore) GetDefaultShop(ctx context.Context) (*domain.Shop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteShopColumns+` FROM etsy_shops WHERE is_default = 1 LIMIT 1`)

	sh := &domain.Shop{}
	if err := scanSQLiteShop(row, sh); err != nil {
		return nil, sqliteNotFound(err, "default shop")
	}
	return sh, nil
}

// ListShops returns all shops, optionally only active ones. The default shop sorts first.
func (s *SQLiteStore) ListShops(ctx context.Context, activeOnly bool) ([]domain.Shop, error) {
	query := `SELECT ` + sqliteShopColumns + ` FROM etsy_shops`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY is_default DESC, shop_name, shop_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		var sh domain.Shop
		if err := scanSQLiteShop(rows, &sh); err != nil {
			return nil, fmt.Errorf("scanning shop: %w", err)
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

// UpsertShop inserts or updates a shop. A shop saved as default clears the
// flag on every other shop in the same transaction.
func (s *SQLiteStore) UpsertShop(ctx context.Context, sh *domain.Shop) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := formatTime(s.now())

	if sh.IsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE etsy_shops SET is_default = 0, updated_at = ?2
			WHERE is_default = 1 AND shop_id <> ?1`, sh.ShopID, now); err != nil {
			return fmt.Errorf("clearing default shops: %w", err)
		}
	}

	var createdAt string
	var updatedAt sql.NullString
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO etsy_shops (shop_id, shop_name, is_active, is_default, shop_url, description, created_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
		ON CONFLICT (shop_id) DO UPDATE SET
			shop_name = excluded.shop_name,
			is_active = excluded.is_active,
			is_default = excluded.is_default,
			shop_url = excluded.shop_url,
			description = excluded.description,
			updated_at = ?7
		RETURNING created_at, updated_at`,
		sh.ShopID, sh.ShopName, sh.IsActive, sh.IsDefault, sh.ShopURL, sh.Description, now,
	).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("upserting shop: %w", err)
	}

	if sh.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	if sh.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing shop: %w", err)
	}
	return nil
}

// DeleteShop removes a shop record. Its token, if any, is left in place.
func (s *SQLiteStore) DeleteShop(ctx context.Context, shopID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM etsy_shops WHERE shop_id = ?1`, shopID)
	if err != nil {
		return fmt.Errorf("deleting shop: %w", err)
	}
	return requireAffected(res, "shop "+shopID)
}

// SetDefaultShop makes shopID the only default shop in one UPDATE statement.
func (s *SQLiteStore) SetDefaultShop(ctx context.Context, shopID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM etsy_shops WHERE shop_id = ?1)`, shopID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking shop: %w", err)
	}
	if !exists {
		return fmt.Errorf("shop %s: %w", shopID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE etsy_shops SET is_default = (shop_id = ?1), updated_at = ?2
		WHERE is_default = 1 OR shop_id = ?1`, shopID, formatTime(s.now())); err != nil {
		return fmt.Errorf("setting default shop: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing default shop: %w", err)
	}
	return nil
}

const sqliteProductColumns = `sku, name, description, price, cost, thumbnail_url,
	variant_id, printful_variant_id, etsy_listing_id, quantity, taxonomy_id, tags, created_at`

// UpsertProduct inserts or updates a product by SKU.
func (s *SQLiteStore) UpsertProduct(ctx context.Context, p *domain.Product) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	var createdAt string
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (`+sqliteProductColumns+`)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13)
		ON CONFLICT (sku) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			price = excluded.price,
			cost = excluded.cost,
			thumbnail_url = excluded.thumbnail_url,
			variant_id = excluded.variant_id,
			printful_variant_id = excluded.printful_variant_id,
			etsy_listing_id = excluded.etsy_listing_id,
			quantity = excluded.quantity,
			taxonomy_id = excluded.taxonomy_id,
			tags = excluded.tags
		RETURNING created_at`,
		p.SKU, p.Name, p.Description, p.Price, p.Cost, p.ThumbnailURL,
		p.VariantID, p.PrintfulVariantID, p.EtsyListingID, p.Quantity, p.TaxonomyID,
		string(tagsJSON), formatTime(s.now()),
	).Scan(&createdAt); err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}

	p.CreatedAt, err = parseTime(createdAt)
	return err
}

// GetProduct retrieves a product by SKU.
func (s *SQLiteStore) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteProductColumns+` FROM products WHERE sku = ?1`, sku)

	p := &domain.Product{}
	if err := scanSQLiteProduct(row, p); err != nil {
		return nil, sqliteNotFound(err, "product")
	}
	return p, nil
}

// ListProducts returns all products, newest first.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+sqliteProductColumns+` FROM products ORDER BY created_at DESC, sku`)
}

// ListProductsWithoutListing returns up to limit products not yet listed on Etsy.
func (s *SQLiteStore) ListProductsWithoutListing(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.queryProducts(ctx, `SELECT `+sqliteProductColumns+` FROM products
		WHERE etsy_listing_id = '' ORDER BY created_at, sku LIMIT ?1`, limit)
}

// UpdateProductListing links a product to its Etsy listing.
func (s *SQLiteStore) UpdateProductListing(ctx context.Context, sku, listingID string) error {
	return s.execProduct(ctx, "updating product listing",
		`UPDATE products SET etsy_listing_id = ?2 WHERE sku = ?1`, sku, listingID)
}

// UpdateProductPrice sets a product's price.
func (s *SQLiteStore) UpdateProductPrice(ctx context.Context, sku string, price float64) error {
	return s.execProduct(ctx, "updating product price",
		`UPDATE products SET price = ?2 WHERE sku = ?1`, sku, price)
}

// UpdateProductQuantity sets a product's stock quantity.
func (s *SQLiteStore) UpdateProductQuantity(ctx context.Context, sku string, quantity int) error {
	return s.execProduct(ctx, "updating product quantity",
		`UPDATE products SET quantity = ?2 WHERE sku = ?1`, sku, quantity)
}

// UpdateProductPrintfulVariant records the Printful sync variant created for a product.
func (s *SQLiteStore) UpdateProductPrintfulVariant(ctx context.Context, sku, variantID string) error {
	return s.execProduct(ctx, "updating printful variant",
		`UPDATE products SET printful_variant_id = ?2 WHERE sku = ?1`, sku, variantID)
}

// UpsertListing inserts or updates a listing by its Etsy listing ID.
func (s *SQLiteStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	status := l.Status
	if status == "" {
		status = domain.ListingDraft
	}

	var createdAt string
	var updatedAt sql.NullString
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO listings (listing_id, sku, shop_id, title, price, status, etsy_url, created_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8)
		ON CONFLICT (listing_id) DO UPDATE SET
			sku = excluded.sku,
			shop_id = excluded.shop_id,
			title = excluded.title,
			price = excluded.price,
			status = excluded.status,
			etsy_url = excluded.etsy_url,
			updated_at = ?8
		RETURNING id, created_at, updated_at`,
		l.ListingID, l.SKU, l.ShopID, l.Title, l.Price, string(status), l.EtsyURL,
		formatTime(s.now()),
	).Scan(&l.ID, &createdAt, &updatedAt); err != nil {
		return fmt.Errorf("upserting listing: %w", err)
	}

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	if l.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return err
	}
	l.Status = status
	return nil
}

// GetListing retrieves a listing by its Etsy listing ID.
func (s *SQLiteStore) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	row := s.db.QueryRowContext(ctx, baseListingsSelect+` WHERE listing_id = ?1`, listingID)

	l := &domain.Listing{}
	if err := scanSQLiteListing(row, l); err != nil {
		return nil, sqliteNotFound(err, "listing")
	}
	return l, nil
}

// ListListings queries listings with optional filters, returning results and total count.
func (s *SQLiteStore) ListListings(ctx context.Context, q *ListingQuery) ([]domain.Listing, int, error) {
	if q == nil {
		q = &ListingQuery{}
	}
	dataSQL, countSQL, args := q.build(sqlitePlaceholder)

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanSQLiteListing(rows, &l); err != nil {
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
func (s *SQLiteStore) InsertRunLog(ctx context.Context, r *domain.RunLog) error {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO run_logs (job, status, message, created_at) VALUES (?1, ?2, ?3, ?4)`,
		r.Job, r.Status, r.Message, formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting run log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run log id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

// ListRunLogs returns the most recent run logs, newest first. An empty job
// returns logs for every job.
func (s *SQLiteStore) ListRunLogs(ctx context.Context, job string, limit int) ([]domain.RunLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job, status, message, created_at FROM run_logs
		WHERE (?1 = '' OR job = ?1)
		ORDER BY created_at DESC, id DESC LIMIT ?2`, job, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.RunLog
	for rows.Next() {
		var r domain.RunLog
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Job, &r.Status, &r.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run log: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		logs = append(logs, r)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanSQLiteProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *SQLiteStore) execProduct(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, fmt.Sprintf("%s: product %v", op, args[0]))
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: reading rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func sqliteNotFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("querying %s: %w", what, err)
}

func scanSQLiteToken(row scannable, t *domain.Token) error {
	var expiresAt, updatedAt sql.NullString
	var createdAt string
	if err := row.Scan(
		&t.ID, &t.Provider, &t.ShopID, &t.AccessToken, &t.RefreshToken,
		&expiresAt, &createdAt, &updatedAt,
	); err != nil {
		return err
	}

	var err error
	if t.ExpiresAt, err = parseNullTime(expiresAt); err != nil {
		return err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	t.UpdatedAt, err = parseNullTime(updatedAt)
	return err
}

func scanSQLiteShop(row scannable, sh *domain.Shop) error {
	var createdAt string
	var updatedAt sql.NullString
	if err := row.Scan(
		&sh.ShopID, &sh.ShopName, &sh.IsActive, &sh.IsDefault, &sh.ShopURL,
		&sh.Description, &createdAt, &updatedAt,
	); err != nil {
		return err
	}

	var err error
	if sh.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	sh.UpdatedAt, err = parseNullTime(updatedAt)
	return err
}

func scanSQLiteProduct(row scannable, p *domain.Product) error {
	var price, cost sql.NullFloat64
	var variantID, quantity, taxonomyID sql.NullInt64
	var tagsJSON, createdAt string
	if err := row.Scan(
		&p.SKU, &p.Name, &p.Description, &price, &cost, &p.ThumbnailURL,
		&variantID, &p.PrintfulVariantID, &p.EtsyListingID, &quantity, &taxonomyID,
		&tagsJSON, &createdAt,
	); err != nil {
		return err
	}

	p.Price = nullFloat(price)
	p.Cost = nullFloat(cost)
	p.VariantID = nullInt(variantID)
	p.Quantity = nullInt(quantity)
	p.TaxonomyID = nullInt(taxonomyID)

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return fmt.Errorf("unmarshaling tags: %w", err)
		}
	}

	var err error
	p.CreatedAt, err = parseTime(createdAt)
	return err
}

func scanSQLiteListing(row scannable, l *domain.Listing) error {
	var price sql.NullFloat64
	var createdAt string
	var updatedAt sql.NullString
	if err := row.Scan(
		&l.ID, &l.ListingID, &l.SKU, &l.ShopID, &l.Title, &price,
		&l.Status, &l.EtsyURL, &createdAt, &updatedAt,
	); err != nil {
		return err
	}

	l.Price = nullFloat(price)

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	l.UpdatedAt, err = parseNullTime(updatedAt)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		// Rows written by hand or by older tooling may use RFC 3339.
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
		}
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil //nolint:nilnil // NULL column maps to a nil pointer
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
