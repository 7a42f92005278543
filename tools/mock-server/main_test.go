package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(testLogger(), newState()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode, out
}

func TestTokenHandler(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		basicAuth  bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "authorization code with basic auth",
			form:       url.Values{"grant_type": {"authorization_code"}, "code": {"abc"}, "code_verifier": {"v1"}},
			basicAuth:  true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "authorization code without verifier",
			form:       url.Values{"grant_type": {"authorization_code"}, "code": {"abc"}},
			basicAuth:  true,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
		{
			name:       "refresh with client_id param",
			form:       url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"r1"}, "client_id": {"key"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing client credentials",
			form:       url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"r1"}},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid_client",
		},
		{
			name:       "missing code",
			form:       url.Values{"grant_type": {"authorization_code"}},
			basicAuth:  true,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_grant",
		},
		{
			name:       "unknown grant",
			form:       url.Values{"grant_type": {"password"}},
			basicAuth:  true,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported_grant_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/etsy/v3/public/oauth/token", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.basicAuth {
				req.SetBasicAuth("key", "secret")
			}
			w := httptest.NewRecorder()

			tokenHandler(testLogger())(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d", w.Code, tt.wantStatus)
			}
			var resp map[string]any
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if tt.wantError != "" {
				if resp["error"] != tt.wantError {
					t.Errorf("error=%v, want %s", resp["error"], tt.wantError)
				}
				return
			}
			access, _ := resp["access_token"].(string)
			if !strings.HasPrefix(access, "12345678.") {
				t.Errorf("access_token=%q, want shop-prefixed token", access)
			}
			if resp["refresh_token"] == "" || resp["refresh_token"] == nil {
				t.Error("expected non-empty refresh_token")
			}
			if resp["expires_in"] != float64(3600) {
				t.Errorf("expires_in=%v, want 3600", resp["expires_in"])
			}
		})
	}
}

func TestRequireBearer(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + etsyPrefix + "/shops")
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status=%d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestShopsHandler(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodGet, srv.URL+etsyPrefix+"/shops", nil)
	if status != http.StatusOK {
		t.Fatalf("status=%d, want 200", status)
	}
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results=%d, want 1", len(results))
	}
	shop, _ := results[0].(map[string]any)
	if shop["shop_id"] != float64(mockShopID) {
		t.Errorf("shop_id=%v, want %d", shop["shop_id"], mockShopID)
	}
}

func TestListingLifecycle(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + etsyPrefix

	status, listing := doJSON(t, http.MethodPost, base+"/shops/111/listings", map[string]any{
		"title": "Cat Mug", "description": "A mug", "state": "draft",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status=%d, want 201", status)
	}
	id, ok := listing["listing_id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("listing_id=%v, want number", listing["listing_id"])
	}
	if listing["shop_id"] != "111" {
		t.Errorf("shop_id=%v, want 111", listing["shop_id"])
	}
	listingURL := base + "/listings/" + jsonNumber(id)

	status, _ = doJSON(t, http.MethodPut, listingURL+"/inventory", map[string]any{
		"products": []any{map[string]any{
			"offerings": []any{map[string]any{
				"price":    map[string]any{"amount": 1999, "currency_code": "USD"},
				"quantity": 999,
			}},
		}},
	})
	if status != http.StatusOK {
		t.Fatalf("inventory status=%d, want 200", status)
	}

	status, _ = doJSON(t, http.MethodPatch, listingURL, map[string]any{"title": "Dog Mug"})
	if status != http.StatusOK {
		t.Fatalf("patch status=%d, want 200", status)
	}

	status, got := doJSON(t, http.MethodGet, listingURL, nil)
	if status != http.StatusOK {
		t.Fatalf("get status=%d, want 200", status)
	}
	if got["title"] != "Dog Mug" {
		t.Errorf("title=%v, want Dog Mug", got["title"])
	}
	price, _ := got["price"].(map[string]any)
	if price["amount"] != float64(1999) || price["divisor"] != float64(100) {
		t.Errorf("price=%v, want 1999/100", price)
	}
	if got["quantity"] != float64(999) {
		t.Errorf("quantity=%v, want 999", got["quantity"])
	}
}

func TestCreateListing_RequiresTitle(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, http.MethodPost, srv.URL+etsyPrefix+"/shops/111/listings", map[string]any{"description": "x"})
	if status != http.StatusBadRequest {
		t.Errorf("status=%d, want 400", status)
	}
}

func TestGetListing_NotFound(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, http.MethodGet, srv.URL+etsyPrefix+"/listings/42", nil)
	if status != http.StatusNotFound {
		t.Errorf("status=%d, want 404", status)
	}
}

func TestImageUpload(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + etsyPrefix

	_, listing := doJSON(t, http.MethodPost, base+"/shops/111/listings", map[string]any{"title": "Cat Mug"})
	id := jsonNumber(listing["listing_id"].(float64))

	upload := func() (int, map[string]any) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("image", "mug.jpg")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		_, _ = fw.Write([]byte{0xff, 0xd8, 0xff})
		mw.Close()

		req, _ := http.NewRequest(http.MethodPost, base+"/listings/"+id+"/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer test-token")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("sending request: %v", err)
		}
		defer resp.Body.Close()
		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	for want := 1; want <= 2; want++ {
		status, out := upload()
		if status != http.StatusCreated {
			t.Fatalf("status=%d, want 201", status)
		}
		if out["rank"] != float64(want) {
			t.Errorf("rank=%v, want %d", out["rank"], want)
		}
	}
}

func TestPrintfulProducts(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + printfulPrefix

	status, created := doJSON(t, http.MethodPost, base+"/store/products", map[string]any{
		"sync_product": map[string]any{"name": "Cat Mug", "external_id": "MUG-CAT"},
		"sync_variants": []any{
			map[string]any{"retail_price": "19.99", "sku": "MUG-CAT-11", "variant_id": 1320},
			map[string]any{"retail_price": "21.99", "sku": "MUG-CAT-15", "variant_id": 4830},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("create status=%d, want 200", status)
	}
	result, _ := created["result"].(map[string]any)
	variants, _ := result["sync_variants"].([]any)
	if len(variants) != 2 {
		t.Fatalf("variants=%d, want 2", len(variants))
	}
	product, _ := result["sync_product"].(map[string]any)
	id := jsonNumber(product["id"].(float64))

	status, _ = doJSON(t, http.MethodGet, base+"/store/products/"+id, nil)
	if status != http.StatusOK {
		t.Errorf("get status=%d, want 200", status)
	}

	status, _ = doJSON(t, http.MethodDelete, base+"/store/products/"+id, nil)
	if status != http.StatusOK {
		t.Errorf("delete status=%d, want 200", status)
	}

	status, _ = doJSON(t, http.MethodGet, base+"/store/products/"+id, nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete status=%d, want 404", status)
	}
}

func TestPrintfulStoreAndOrders(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + printfulPrefix

	status, store := doJSON(t, http.MethodGet, base+"/store", nil)
	if status != http.StatusOK {
		t.Fatalf("store status=%d, want 200", status)
	}
	info, _ := store["result"].(map[string]any)
	if info["currency"] != "USD" {
		t.Errorf("currency=%v, want USD", info["currency"])
	}

	status, orders := doJSON(t, http.MethodGet, base+"/orders", nil)
	if status != http.StatusOK {
		t.Fatalf("orders status=%d, want 200", status)
	}
	if list, _ := orders["result"].([]any); len(list) != 2 {
		t.Errorf("orders=%d, want 2", len(list))
	}
}

func jsonNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
