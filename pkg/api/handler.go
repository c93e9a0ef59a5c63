package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/sjisgate/pkg/audit"
	"github.com/hazyhaar/sjisgate/pkg/kit"
	"github.com/hazyhaar/sjisgate/pkg/sjis"
)

// NewRouter returns an http.Handler with all validation API routes.
// store may be nil, which disables the verdict journal.
func NewRouter(v *sjis.Validator, store *audit.Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	validate := validateEndpoint(v)
	validateBatch := validateBatchEndpoint(v)
	if store != nil {
		journal := kit.Chain(auditMiddleware(store, logger))
		validate = journal(validate)
		validateBatch = journal(validateBatch)
	}

	mux := http.NewServeMux()
	h := &handler{
		validate:      validate,
		validateBatch: validateBatch,
		listTables:    listTablesEndpoint(),
		store:         store,
	}

	mux.HandleFunc("GET /v1/validate", methodNotAllowed) // prevent GET on validate
	mux.HandleFunc("POST /v1/validate", h.handleValidate)
	mux.HandleFunc("GET /v1/validate/batch", methodNotAllowed)
	mux.HandleFunc("POST /v1/validate/batch", h.handleValidateBatch)
	mux.HandleFunc("GET /v1/tables", h.handleListTables)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	validate      kit.Endpoint
	validateBatch kit.Endpoint
	listTables    kit.Endpoint
	store         *audit.Store
}

// --- validate single text ---

type httpValidateRequest struct {
	Text    string `json:"text"`
	Mode    string `json:"mode,omitempty"`
	Variant string `json:"variant,omitempty"`
}

func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mode, tables, ok := parseSelectors(w, req.Mode, req.Variant)
	if !ok {
		return
	}

	resp, err := h.validate(r.Context(), &validateReq{Text: req.Text, Mode: mode, Tables: tables})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- validate batch ---

type httpBatchRequest struct {
	Texts   []string `json:"texts"`
	Mode    string   `json:"mode,omitempty"`
	Variant string   `json:"variant,omitempty"`
}

func (h *handler) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256*1024) // 256 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mode, tables, ok := parseSelectors(w, req.Mode, req.Variant)
	if !ok {
		return
	}

	resp, err := h.validateBatch(r.Context(), &validateBatchReq{Texts: req.Texts, Mode: mode, Tables: tables})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- list tables ---

func (h *handler) handleListTables(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listTables(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status    string `json:"status"`
	Checked   int64  `json:"checked"`
	Forbidden int64  `json:"forbidden"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.store != nil {
		if total, forbidden, err := h.store.Counts(); err == nil {
			resp.Checked = total
			resp.Forbidden = forbidden
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

// parseSelectors resolves the mode and variant names. The zero values are
// the strictest mode and the broad (kanji) tables.
func parseSelectors(w http.ResponseWriter, modeName, variantName string) (sjis.Mode, sjis.Tables, bool) {
	mode, err := sjis.ParseMode(modeName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, sjis.Tables{}, false
	}
	if variantName == "" {
		variantName = sjis.KanjiTables.Name
	}
	tables, ok := sjis.TablesByName(variantName)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown variant "+variantName)
		return 0, sjis.Tables{}, false
	}
	return mode, tables, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
