package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int, step string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d %s, got %d: %s", status, step, rec.Code, rec.Body.String())
	}
}

func TestLedgerFlow_FullLifecycle(t *testing.T) {
	r := testRouter(t)

	// Step 1: platform and asset
	rec := serve(r, http.MethodPost, "/api/v1/platforms", `{"name":"Interactive Brokers"}`, nil)
	expectStatus(t, rec, http.StatusCreated, "creating platform")
	platformID := decode(t, rec)["platform"].(map[string]interface{})["id"].(string)

	rec = serve(r, http.MethodPost, "/api/v1/assets", `{"type":"STOCK","symbol":"AAPL","name":"Apple Inc.","currency":"USD"}`, nil)
	expectStatus(t, rec, http.StatusCreated, "creating asset")
	assetID := decode(t, rec)["asset"].(map[string]interface{})["id"].(string)

	// Step 2: a buy without price or FX leaves the total unknown
	rec = serve(r, http.MethodPost, "/api/v1/transactions",
		`{"platform_id":"`+platformID+`","asset_id":"`+assetID+`","kind":"BUY","date":"2025-01-10","qty":"10","price":"150","currency":"USD"}`, nil)
	expectStatus(t, rec, http.StatusCreated, "creating transaction")
	txnID := decode(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	rec = serve(r, http.MethodGet, "/api/v1/portfolio/summary", "", nil)
	expectStatus(t, rec, http.StatusOK, "getting summary")
	summary := decode(t, rec)["summary"].(map[string]interface{})
	if summary["total_value_eur"] != nil {
		t.Errorf("expected unknown total without price and FX, got %v", summary["total_value_eur"])
	}

	// Step 3: price and FX make it computable
	rec = serve(r, http.MethodPost, "/api/v1/prices",
		`{"prices":[{"asset_id":"`+assetID+`","date":"2025-01-20","price":"200","currency":"USD"}]}`, nil)
	expectStatus(t, rec, http.StatusCreated, "recording price")

	rec = serve(r, http.MethodPost, "/api/v1/fx", `{"currency":"USD","rate":"0.9","date":"2025-01-20"}`, nil)
	expectStatus(t, rec, http.StatusCreated, "recording FX")

	rec = serve(r, http.MethodGet, "/api/v1/portfolio/summary", "", nil)
	expectStatus(t, rec, http.StatusOK, "getting summary")
	summary = decode(t, rec)["summary"].(map[string]interface{})
	if summary["total_value_eur"] != "1800" {
		t.Errorf("expected total 1800 (10 x 200 x 0.9), got %v", summary["total_value_eur"])
	}

	rec = serve(r, http.MethodGet, "/api/v1/fx/latest?pair=USD/EUR", "", nil)
	expectStatus(t, rec, http.StatusOK, "getting latest FX")

	// Step 4: referenced entities cannot be deleted
	rec = serve(r, http.MethodDelete, "/api/v1/platforms/"+platformID, "", nil)
	expectStatus(t, rec, http.StatusConflict, "deleting used platform")

	// Step 5: deleting the trade closes the position
	rec = serve(r, http.MethodDelete, "/api/v1/transactions/"+txnID, "", nil)
	expectStatus(t, rec, http.StatusNoContent, "deleting transaction")

	rec = serve(r, http.MethodGet, "/api/v1/transactions?platform_id="+platformID, "", nil)
	expectStatus(t, rec, http.StatusOK, "listing transactions")
	if total := decode(t, rec)["total_items"].(float64); total != 0 {
		t.Errorf("expected 0 transactions, got %.0f", total)
	}

	rec = serve(r, http.MethodDelete, "/api/v1/platforms/"+platformID, "", nil)
	expectStatus(t, rec, http.StatusNoContent, "deleting unused platform")
}

func TestImportFlow_PreviewThenCommit(t *testing.T) {
	r := testRouter(t)
	body := `{"csv":"date,platform,kind,asset_symbol,qty,price,currency\n2024-01-01,DEGIRO,DEPOSIT,,1000,,EUR\n2024-01-02,DEGIRO,BUY,VWRL,10,90.5,EUR\n"}`

	rec := serve(r, http.MethodPost, "/api/v1/imports/preview", body, nil)
	expectStatus(t, rec, http.StatusOK, "previewing")
	preview := decode(t, rec)["preview"].(map[string]interface{})
	if records := preview["records"].([]interface{}); len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	rec = serve(r, http.MethodGet, "/api/v1/transactions", "", nil)
	if total := decode(t, rec)["total_items"].(float64); total != 0 {
		t.Fatalf("expected preview to write nothing, got %.0f transactions", total)
	}

	rec = serve(r, http.MethodPost, "/api/v1/imports/commit", body, nil)
	expectStatus(t, rec, http.StatusCreated, "committing")
	result := decode(t, rec)["import"].(map[string]interface{})
	if result["transactions_created"] != float64(2) || result["assets_created"] != float64(1) {
		t.Errorf("expected 2 transactions and 1 asset, got %v", result)
	}

	rec = serve(r, http.MethodGet, "/api/v1/portfolio/summary", "", nil)
	summary := decode(t, rec)["summary"].(map[string]interface{})
	if summary["total_value_eur"] != "905" {
		t.Errorf("expected EUR total 905 from the imported price, got %v", summary["total_value_eur"])
	}
}
