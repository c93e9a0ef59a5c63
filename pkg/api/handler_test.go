package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/sjisgate/pkg/audit"
	"github.com/hazyhaar/sjisgate/pkg/sjis"
)

func newTestRouter(t *testing.T, store *audit.Store) http.Handler {
	t.Helper()
	return NewRouter(sjis.NewValidator(nil, nil), store, nil)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleValidate(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantForbidden bool
	}{
		{"clean text", `{"text":"こんにちは"}`, http.StatusOK, false},
		{"deny symbol", `{"text":"a<b"}`, http.StatusOK, true},
		{"unencodable", `{"text":"a€b"}`, http.StatusOK, true},
		{"tilde allowed", `{"text":"a~b","mode":"all"}`, http.StatusOK, false},
		{"tilde strict narrow", `{"text":"a~b","variant":"symbols"}`, http.StatusOK, true},
		{"bad mode", `{"text":"x","mode":"loose"}`, http.StatusBadRequest, false},
		{"bad variant", `{"text":"x","variant":"latin"}`, http.StatusBadRequest, false},
		{"bad json", `{"text":`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		rec := postJSON(t, router, "/v1/validate", tt.body)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.wantStatus, rec.Body.String())
			continue
		}
		if tt.wantStatus != http.StatusOK {
			continue
		}
		var rep sjis.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
			t.Errorf("%s: decode: %v", tt.name, err)
			continue
		}
		if rep.Forbidden != tt.wantForbidden {
			t.Errorf("%s: forbidden = %v, want %v", tt.name, rep.Forbidden, tt.wantForbidden)
		}
	}
}

func TestHandleValidateBatch(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := postJSON(t, router, "/v1/validate/batch", `{"texts":["ok","a<b"],"mode":"all"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Forbidden || !resp.Results[1].Forbidden {
		t.Errorf("unexpected verdicts: %v, %v", resp.Results[0].Forbidden, resp.Results[1].Forbidden)
	}

	rec = postJSON(t, router, "/v1/validate/batch", `{"texts":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleValidateRejectsGet(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/validate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleListTables(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/tables", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp tablesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tables) != 2 {
		t.Errorf("expected 2 table variants, got %d", len(resp.Tables))
	}
}

func TestAuditJournalAndHealth(t *testing.T) {
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("audit.Open: %v", err)
	}
	defer store.Close()

	router := newTestRouter(t, store)

	postJSON(t, router, "/v1/validate", `{"text":"ok"}`)
	postJSON(t, router, "/v1/validate", `{"text":"a<b"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
	if health.Checked != 2 || health.Forbidden != 1 {
		t.Errorf("counters = %d, %d; want 2, 1", health.Checked, health.Forbidden)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal rows, got %d", len(entries))
	}
	if entries[0].Sample != "a<b" || !entries[0].SymbolHit {
		t.Errorf("unexpected journal row: %+v", entries[0])
	}
}
