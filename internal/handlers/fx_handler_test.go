package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

func setupFxRouter(handler *FxHandler) *gin.Engine {
	r := gin.New()
	r.POST("/fx", handler.RecordRate)
	r.GET("/fx", handler.ListRates)
	r.GET("/fx/latest", handler.LatestRate)
	r.DELETE("/fx/:id", handler.DeleteRate)
	return r
}

func TestFxHandler_RecordRate(t *testing.T) {
	t.Run("with_date", func(t *testing.T) {
		var gotCurrency string
		var gotRate decimal.Decimal
		var gotDate time.Time
		svc := &mockFxService{
			recordRateFn: func(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error) {
				gotCurrency, gotRate, gotDate = currency, rate, date
				return &models.FxSnapshot{Pair: models.FxPair(currency), Rate: rate, Date: date}, nil
			},
		}
		r := setupFxRouter(NewFxHandler(svc))

		rec := doRequest(r, http.MethodPost, "/fx", `{"currency":"USD","rate":"0.92","date":"2025-01-02"}`)
		assertStatus(t, rec, http.StatusCreated)
		if gotCurrency != "USD" || gotRate.String() != "0.92" {
			t.Errorf("expected USD 0.92, got %s %s", gotCurrency, gotRate)
		}
		if gotDate.Format("2006-01-02") != "2025-01-02" {
			t.Errorf("expected 2025-01-02, got %s", gotDate)
		}
		fx := parseJSON(t, rec)["fx"].(map[string]interface{})
		if fx["pair"] != "USD/EUR" {
			t.Errorf("expected USD/EUR, got %v", fx["pair"])
		}
	})

	t.Run("defaults_to_now", func(t *testing.T) {
		var gotDate time.Time
		svc := &mockFxService{
			recordRateFn: func(_ string, _ decimal.Decimal, date time.Time) (*models.FxSnapshot, error) {
				gotDate = date
				return &models.FxSnapshot{}, nil
			},
		}
		r := setupFxRouter(NewFxHandler(svc))

		before := time.Now().Add(-time.Minute)
		rec := doRequest(r, http.MethodPost, "/fx", `{"currency":"GBP","rate":1.18}`)
		assertStatus(t, rec, http.StatusCreated)
		if gotDate.Before(before) {
			t.Errorf("expected current time, got %s", gotDate)
		}
	})

	t.Run("invalid_rate", func(t *testing.T) {
		svc := &mockFxService{
			recordRateFn: func(string, decimal.Decimal, time.Time) (*models.FxSnapshot, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Rate must be positive")
			},
		}
		r := setupFxRouter(NewFxHandler(svc))
		rec := doRequest(r, http.MethodPost, "/fx", `{"currency":"USD","rate":"0"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestFxHandler_ListRates(t *testing.T) {
	t.Run("by_pair", func(t *testing.T) {
		var gotPair string
		svc := &mockFxService{
			listRatesFn: func(pair string, _ pagination.PageRequest) (*pagination.PageResponse[models.FxSnapshot], error) {
				gotPair = pair
				resp := pagination.NewPageResponse([]models.FxSnapshot{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupFxRouter(NewFxHandler(svc))

		rec := doRequest(r, http.MethodGet, "/fx?pair=USD/EUR", "")
		assertStatus(t, rec, http.StatusOK)
		if gotPair != "USD/EUR" {
			t.Errorf("expected USD/EUR, got %q", gotPair)
		}
	})

	t.Run("bad_pair", func(t *testing.T) {
		r := setupFxRouter(NewFxHandler(&mockFxService{}))
		rec := doRequest(r, http.MethodGet, "/fx?pair=EUR/USD", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestFxHandler_LatestRate(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockFxService{
			latestRateFn: func(pair string) (*models.FxSnapshot, error) {
				return &models.FxSnapshot{Pair: pair, Rate: decimal.RequireFromString("0.91")}, nil
			},
		}
		r := setupFxRouter(NewFxHandler(svc))
		rec := doRequest(r, http.MethodGet, "/fx/latest?pair=USD/EUR", "")
		assertStatus(t, rec, http.StatusOK)
		fx := parseJSON(t, rec)["fx"].(map[string]interface{})
		if fx["rate"] != "0.91" {
			t.Errorf("expected 0.91, got %v", fx["rate"])
		}
	})

	t.Run("pair_required", func(t *testing.T) {
		r := setupFxRouter(NewFxHandler(&mockFxService{}))
		rec := doRequest(r, http.MethodGet, "/fx/latest", "")
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("missing", func(t *testing.T) {
		svc := &mockFxService{
			latestRateFn: func(string) (*models.FxSnapshot, error) { return nil, apperrors.ErrFxSnapshotNotFound },
		}
		r := setupFxRouter(NewFxHandler(svc))
		rec := doRequest(r, http.MethodGet, "/fx/latest?pair=CHF/EUR", "")
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "FX_NOT_FOUND")
	})
}

func TestFxHandler_DeleteRate(t *testing.T) {
	r := setupFxRouter(NewFxHandler(&mockFxService{}))
	rec := doRequest(r, http.MethodDelete, "/fx/"+transactionID, "")
	assertStatus(t, rec, http.StatusNoContent)
}
