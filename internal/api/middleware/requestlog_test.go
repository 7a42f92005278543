package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
		wantAbsent    bool
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/shops",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/v1/shops",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "client error logged at warn",
			method: http.MethodPost,
			path:   "/api/v1/drafts",
			status: http.StatusUnprocessableEntity,
			wantLogFields: []string{
				"level=WARN",
				"method=POST",
				"status=422",
			},
		},
		{
			name:   "server error logged at error",
			method: http.MethodPost,
			path:   "/api/v1/drafts",
			status: http.StatusBadGateway,
			wantLogFields: []string{
				"level=ERROR",
				"status=502",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/api/v1/products",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
		{
			name:       "successful probe below info",
			method:     http.MethodGet,
			path:       "/healthz",
			status:     http.StatusOK,
			wantAbsent: true,
		},
		{
			name:   "failed probe logged",
			method: http.MethodGet,
			path:   "/readyz",
			status: http.StatusServiceUnavailable,
			wantLogFields: []string{
				"level=ERROR",
				"path=/readyz",
				"status=503",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var ctxID string
			handler := RequestLog(logger)(func(c echo.Context) error {
				ctxID = RequestIDFromContext(c.Request().Context())
				return c.NoContent(tt.status)
			})

			err := handler(c)
			require.NoError(t, err)

			logOutput := buf.String()
			if tt.wantAbsent {
				assert.Empty(t, logOutput)
			}
			for _, field := range tt.wantLogFields {
				assert.Contains(t, logOutput, field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			assert.Equal(t, respID, ctxID)
			assert.Equal(t, respID, c.Get("request_id"))

			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}
		})
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
