package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/config"
	"folio/internal/middleware"
	"folio/internal/testutil"
	"folio/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return newRouter(db, &config.Config{
		AdminAPIKey:     "secret",
		MappingCacheTTL: time.Minute,
		HTTPTimeout:     time.Second,
	})
}

func serve(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	r := testRouter(t)

	t.Run("health", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/api/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("unknown_route", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/api/v1/nope", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"NOT_FOUND"`) {
			t.Errorf("expected NOT_FOUND code, got %s", rec.Body.String())
		}
	})

	t.Run("admin_requires_key", func(t *testing.T) {
		rec := serve(r, http.MethodPost, "/api/v1/admin/seed", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("seed_then_summary", func(t *testing.T) {
		rec := serve(r, http.MethodPost, "/api/v1/admin/seed", "", map[string]string{middleware.APIKeyHeader: "secret"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = serve(r, http.MethodGet, "/api/v1/portfolio/summary", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"total_value_eur"`) {
			t.Errorf("expected a total in the summary, got %s", rec.Body.String())
		}

		rec = serve(r, http.MethodGet, "/api/v1/platforms", "", nil)
		if !strings.Contains(rec.Body.String(), `"total_items":2`) {
			t.Errorf("expected 2 seeded platforms, got %s", rec.Body.String())
		}
	})

	t.Run("import_preview", func(t *testing.T) {
		body := `{"csv":"date,platform,kind,asset_symbol,qty,price,currency\n2025-01-02,DEGIRO,BUY,VWRL,1,100,EUR\n"}`
		rec := serve(r, http.MethodPost, "/api/v1/imports/preview", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"state":"ready"`) {
			t.Errorf("expected ready preview, got %s", rec.Body.String())
		}
	})

	t.Run("options_preflight", func(t *testing.T) {
		rec := serve(r, http.MethodOptions, "/api/v1/platforms", "", nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}
