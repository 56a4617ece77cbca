package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/pkg/middleware"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// CategorizationHandler serves categories, user rules and merchant search.
type CategorizationHandler struct {
	svc       *categorization.Service
	apiPrefix string
	logger    *slog.Logger
}

// NewCategorizationHandler creates a new categorization handler
func NewCategorizationHandler(svc *categorization.Service, apiPrefix string, logger *slog.Logger) *CategorizationHandler {
	return &CategorizationHandler{svc: svc, apiPrefix: apiPrefix, logger: logger}
}

// Register mounts the categorization routes on mux.
func (h *CategorizationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+h.apiPrefix+"/categories", h.ListCategories)
	mux.HandleFunc("GET "+h.apiPrefix+"/merchants/search", h.SearchMerchants)
	mux.HandleFunc("GET "+h.apiPrefix+"/rules", h.ListRules)
	mux.HandleFunc("POST "+h.apiPrefix+"/rules", h.CreateRule)
	mux.HandleFunc("DELETE "+h.apiPrefix+"/rules/{id}", h.DeleteRule)
}

// ListCategories handles GET /api/v1/categories
func (h *CategorizationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := categorization.Categories()
	out := make([]map[string]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, map[string]string{"name": string(c), "color": c.Color()})
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    out,
	})
}

// SearchMerchants handles GET /api/v1/merchants/search?q=&limit=
func (h *CategorizationHandler) SearchMerchants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		middleware.WriteBadRequest(w, "'q' parameter is required")
		return
	}

	limit := defaultSearchLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.WriteBadRequest(w, "'limit' must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results, err := h.svc.SearchMerchants(q, limit)
	if err != nil {
		h.logger.Error("merchant search failed", slog.String("query", q), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}
	if results == nil {
		results = []categorization.SearchResult{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"results": results,
			"count":   len(results),
		},
	})
}

// ListRules handles GET /api/v1/rules
func (h *CategorizationHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		h.logger.Error("failed to list rules", slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}
	if rules == nil {
		rules = []categorization.Rule{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rules,
	})
}

// CreateRule handles POST /api/v1/rules
func (h *CategorizationHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req categorization.Rule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "Invalid request body")
		return
	}

	saved, err := h.svc.SaveRule(r.Context(), req)
	if errors.Is(err, categorization.ErrInvalidRule) {
		middleware.WriteBadRequest(w, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to save rule", slog.String("pattern", req.Pattern), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    saved,
		"message": "Rule saved",
	})
}

// DeleteRule handles DELETE /api/v1/rules/{id}
func (h *CategorizationHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteBadRequest(w, "Invalid rule ID")
		return
	}

	err = h.svc.DeleteRule(r.Context(), id)
	if errors.Is(err, categorization.ErrRuleNotFound) {
		middleware.WriteError(w, http.StatusNotFound, err.Error(), "Rule not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete rule", slog.String("id", id.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
