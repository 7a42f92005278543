package printful

import (
	"net/http"
	"strings"

	"github.com/donaldgifford/automerch/internal/provider"
)

// synthesize returns canned Printful payloads for dry-run requests.
func synthesize(req provider.Request) any {
	var result any
	switch {
	case req.Path == "/store":
		result = map[string]any{
			"name":     "Dry Run Store",
			"currency": "USD",
			"email":    "dryrun@example.com",
		}
	case req.Path == "/orders":
		result = []any{}
	case strings.HasPrefix(req.Path, "/catalog/products/"):
		result = map[string]any{"variants": []map[string]any{
			{"id": 4011, "name": "11oz Mug", "color": "White"},
			{"id": 4012, "name": "15oz Mug", "color": "White"},
		}}
	case strings.HasPrefix(req.Path, "/mockup-generator/"):
		result = map[string]any{
			"task_key":   "dry-run-task",
			"mockup_url": "https://example.com/mockup.jpg",
			"placement":  "front",
		}
	case req.Method == http.MethodGet && strings.HasPrefix(req.Path, "/store/products/"):
		result = map[string]any{
			"sync_product": map[string]any{
				"id":   strings.TrimPrefix(req.Path, "/store/products/"),
				"name": "Dry Run Product",
			},
			"sync_variants": []any{},
		}
	default:
		result = map[string]any{
			"sync_product": map[string]any{"id": 12345, "name": "Dry Run Product"},
			"sync_variant": map[string]any{"id": "VARIANT-DRYRUN-123"},
		}
	}
	return map[string]any{"code": http.StatusOK, "result": result}
}
