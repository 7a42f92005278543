// Package main implements a mock Etsy and Printful API server for local
// development. Point etsy.api_url at http://localhost:8089/etsy/v3/application,
// etsy.token_url at http://localhost:8089/etsy/v3/public/oauth/token and
// printful.base_url at http://localhost:8089/printful to exercise automerch
// without real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	etsyPrefix     = "/etsy/v3/application"
	printfulPrefix = "/printful"

	mockShopID   = 12345678
	mockShopName = "MockMerchShop"
)

// state holds the listings and products created against the mock.
type state struct {
	mu       sync.Mutex
	nextID   atomic.Int64
	listings map[string]map[string]any
	products map[string]map[string]any
	images   map[string]int
}

func newState() *state {
	s := &state{
		listings: map[string]map[string]any{},
		products: map[string]map[string]any{},
		images:   map[string]int{},
	}
	s.nextID.Store(1000000000)
	return s
}

func (s *state) id() string {
	return strconv.FormatInt(s.nextID.Add(1), 10)
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock etsy/printful server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, newState())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, st *state) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /etsy/v3/public/oauth/token", tokenHandler(logger))
	mux.HandleFunc("GET "+etsyPrefix+"/shops", requireBearer(shopsHandler()))
	mux.HandleFunc("POST "+etsyPrefix+"/shops/{shop_id}/listings", requireBearer(createListingHandler(logger, st)))
	mux.HandleFunc("GET "+etsyPrefix+"/listings/{listing_id}", requireBearer(getListingHandler(st)))
	mux.HandleFunc("PATCH "+etsyPrefix+"/listings/{listing_id}", requireBearer(patchListingHandler(st)))
	mux.HandleFunc("PUT "+etsyPrefix+"/listings/{listing_id}/inventory", requireBearer(inventoryHandler(logger, st)))
	mux.HandleFunc("POST "+etsyPrefix+"/listings/{listing_id}/images", requireBearer(imageHandler(logger, st)))

	mux.HandleFunc("GET "+printfulPrefix+"/store", requireBearer(storeHandler()))
	mux.HandleFunc("POST "+printfulPrefix+"/store/products", requireBearer(createProductHandler(logger, st)))
	mux.HandleFunc("GET "+printfulPrefix+"/store/products/{id}", requireBearer(getProductHandler(st)))
	mux.HandleFunc("DELETE "+printfulPrefix+"/store/products/{id}", requireBearer(deleteProductHandler(st)))
	mux.HandleFunc("GET "+printfulPrefix+"/orders", requireBearer(ordersHandler()))

	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

// requireBearer rejects requests without an Authorization: Bearer header.
func requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get("Authorization")) <= len("Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			return
		}
		next(w, r)
	}
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		// Client credentials may arrive as basic auth or as a form field.
		_, _, basic := r.BasicAuth()
		if !basic && r.PostForm.Get("client_id") == "" {
			logger.Warn("token request missing client credentials")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		switch grant := r.PostForm.Get("grant_type"); grant {
		case "authorization_code":
			if r.PostForm.Get("code") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
				return
			}
			if r.PostForm.Get("code_verifier") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"error":             "invalid_request",
					"error_description": "code_verifier is required",
				})
				return
			}
		case "refresh_token":
			if r.PostForm.Get("refresh_token") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
				return
			}
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
			return
		}

		stamp := strconv.FormatInt(time.Now().UnixNano(), 36)
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  fmt.Sprintf("%d.mock-access-%s", mockShopID, stamp),
			"refresh_token": fmt.Sprintf("%d.mock-refresh-%s", mockShopID, stamp),
			"expires_in":    3600,
			"token_type":    "Bearer",
		})
		logger.Info("issued mock token", "grant_type", r.PostForm.Get("grant_type"))
	}
}

func shopsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"count": 1,
			"results": []map[string]any{
				{"shop_id": mockShopID, "shop_name": mockShopName},
			},
		})
	}
}

func createListingHandler(logger *slog.Logger, st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if title, _ := body["title"].(string); title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
			return
		}

		id := st.id()
		shopID := r.PathValue("shop_id")
		body["listing_id"] = json.Number(id)
		body["shop_id"] = shopID
		body["state"] = "draft"
		body["url"] = "https://www.etsy.com/listing/" + id
		body["quantity"] = 0

		st.mu.Lock()
		st.listings[id] = body
		st.mu.Unlock()

		logger.Info("created draft listing", "listing_id", id, "shop_id", shopID)
		writeJSON(w, http.StatusCreated, body)
	}
}

func lookupListing(st *state, w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	listing, ok := st.listings[r.PathValue("listing_id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "listing not found"})
	}
	return listing, ok
}

func getListingHandler(st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		defer st.mu.Unlock()
		if listing, ok := lookupListing(st, w, r); ok {
			writeJSON(w, http.StatusOK, listing)
		}
	}
}

func patchListingHandler(st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		listing, ok := lookupListing(st, w, r)
		if !ok {
			return
		}
		for k, v := range fields {
			listing[k] = v
		}
		writeJSON(w, http.StatusOK, listing)
	}
}

type inventoryBody struct {
	Products []struct {
		Offerings []struct {
			Price struct {
				Amount       int64  `json:"amount"`
				Divisor      int64  `json:"divisor"`
				CurrencyCode string `json:"currency_code"`
			} `json:"price"`
			Quantity int `json:"quantity"`
		} `json:"offerings"`
	} `json:"products"`
}

func inventoryHandler(logger *slog.Logger, st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body inventoryBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if len(body.Products) == 0 || len(body.Products[0].Offerings) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "products must have an offering"})
			return
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		listing, ok := lookupListing(st, w, r)
		if !ok {
			return
		}

		off := body.Products[0].Offerings[0]
		divisor := off.Price.Divisor
		if divisor == 0 {
			divisor = 100
		}
		listing["price"] = map[string]any{
			"amount":        off.Price.Amount,
			"divisor":       divisor,
			"currency_code": off.Price.CurrencyCode,
		}
		listing["quantity"] = off.Quantity

		logger.Info("updated inventory", "listing_id", r.PathValue("listing_id"), "amount", off.Price.Amount)
		writeJSON(w, http.StatusOK, body)
	}
}

func imageHandler(logger *slog.Logger, st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected multipart body"})
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image field is required"})
			return
		}
		file.Close() //nolint:errcheck,gosec // multipart file is in memory

		st.mu.Lock()
		defer st.mu.Unlock()
		if _, ok := lookupListing(st, w, r); !ok {
			return
		}
		listingID := r.PathValue("listing_id")
		st.images[listingID]++
		rank := st.images[listingID]

		logger.Info("uploaded image", "listing_id", listingID, "filename", header.Filename, "bytes", header.Size)
		writeJSON(w, http.StatusCreated, map[string]any{
			"listing_id":       json.Number(listingID),
			"listing_image_id": json.Number(st.id()),
			"rank":             rank,
		})
	}
}

func printfulResult(w http.ResponseWriter, status int, result any) {
	writeJSON(w, status, map[string]any{"code": status, "result": result})
}

func printfulError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"code": status, "result": msg, "error": map[string]any{"reason": http.StatusText(status), "message": msg}})
}

func storeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		printfulResult(w, http.StatusOK, map[string]any{
			"id":       1,
			"name":     "Mock Printful Store",
			"currency": "USD",
			"email":    "store@example.com",
		})
	}
}

type createProductBody struct {
	SyncProduct struct {
		Name       string `json:"name"`
		Thumbnail  string `json:"thumbnail"`
		ExternalID string `json:"external_id"`
	} `json:"sync_product"`
	SyncVariants []struct {
		RetailPrice string `json:"retail_price"`
		SKU         string `json:"sku"`
		VariantID   int    `json:"variant_id"`
	} `json:"sync_variants"`
}

func createProductHandler(logger *slog.Logger, st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			printfulError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.SyncProduct.Name == "" || len(body.SyncVariants) == 0 {
			printfulError(w, http.StatusBadRequest, "sync_product.name and sync_variants are required")
			return
		}

		productID := st.id()
		variants := make([]map[string]any, 0, len(body.SyncVariants))
		for _, v := range body.SyncVariants {
			variants = append(variants, map[string]any{
				"id":           json.Number(st.id()),
				"external_id":  v.SKU,
				"sku":          v.SKU,
				"name":         body.SyncProduct.Name,
				"variant_id":   v.VariantID,
				"retail_price": v.RetailPrice,
			})
		}
		product := map[string]any{
			"sync_product": map[string]any{
				"id":            json.Number(productID),
				"name":          body.SyncProduct.Name,
				"external_id":   body.SyncProduct.ExternalID,
				"thumbnail_url": body.SyncProduct.Thumbnail,
			},
			"sync_variants": variants,
		}

		st.mu.Lock()
		st.products[productID] = product
		st.mu.Unlock()

		logger.Info("created sync product", "product_id", productID, "variants", len(variants))
		printfulResult(w, http.StatusOK, product)
	}
}

func getProductHandler(st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		product, ok := st.products[r.PathValue("id")]
		st.mu.Unlock()
		if !ok {
			printfulError(w, http.StatusNotFound, "Not found")
			return
		}
		printfulResult(w, http.StatusOK, product)
	}
}

func deleteProductHandler(st *state) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		st.mu.Lock()
		product, ok := st.products[id]
		delete(st.products, id)
		st.mu.Unlock()
		if !ok {
			printfulError(w, http.StatusNotFound, "Not found")
			return
		}
		printfulResult(w, http.StatusOK, product)
	}
}

func ordersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		printfulResult(w, http.StatusOK, []map[string]any{
			{"id": 90001, "external_id": "etsy-3001", "status": "fulfilled", "created": 1760000000},
			{"id": 90002, "external_id": "etsy-3002", "status": "pending", "created": 1760086400},
		})
	}
}
