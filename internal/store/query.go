package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByCreated = "created_at"
	orderByPrice   = "price"
	orderByTitle   = "title"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByCreated: "created_at DESC",
	orderByPrice:   "price ASC",
	orderByTitle:   "title ASC",
}

const defaultOrderBy = "created_at DESC"

const baseListingsSelect = `SELECT id, listing_id, COALESCE(sku, ''), COALESCE(shop_id, ''),
	COALESCE(title, ''), price, status, COALESCE(etsy_url, ''), created_at, updated_at
FROM listings`

const countListingsSelect = "SELECT COUNT(*) FROM listings"

// placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type placeholder func(n int) string

func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func sqlitePlaceholder(n int) string { return fmt.Sprintf("?%d", n) }

// ToSQL builds the PostgreSQL data and count queries for a listing query,
// returning both SQL strings and the positional parameters.
func (q *ListingQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	return q.build(postgresPlaceholder)
}

func (q *ListingQuery) build(ph placeholder) (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.ShopID != nil {
		conditions = append(conditions, "shop_id = "+ph(paramIdx))
		args = append(args, *q.ShopID)
		paramIdx++
	}

	if q.SKU != nil {
		conditions = append(conditions, "sku = "+ph(paramIdx))
		args = append(args, *q.SKU)
		paramIdx++
	}

	if q.Status != nil {
		conditions = append(conditions, "status = "+ph(paramIdx))
		args = append(args, string(*q.Status))
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseListingsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countListingsSelect + whereClause

	return dataSQL, countSQL, args
}
