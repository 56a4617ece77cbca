package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
)

type memoryRuleStore struct {
	rules []categorization.Rule
}

func (m *memoryRuleStore) ListRules(ctx context.Context) ([]categorization.Rule, error) {
	return m.rules, nil
}

func (m *memoryRuleStore) SaveRule(ctx context.Context, rule categorization.Rule) (*categorization.Rule, error) {
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now()
	m.rules = append(m.rules, rule)
	return &rule, nil
}

func (m *memoryRuleStore) DeleteRule(ctx context.Context, id uuid.UUID) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return categorization.ErrRuleNotFound
}

func newTestMux(t *testing.T) (*http.ServeMux, *categorization.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := categorization.NewService(&memoryRuleStore{}, nil, logger)
	require.NoError(t, svc.Reload(context.Background()))

	mux := http.NewServeMux()
	NewCategorizationHandler(svc, "/api/v1", logger).Register(mux)
	return mux, svc
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func TestCategorizationHandler_ListCategories(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := serve(mux, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, len(categorization.Categories()))
	assert.Equal(t, "Food & Dining", body.Data[0]["name"])
	assert.Equal(t, "#FF6B6B", body.Data[0]["color"])
}

func TestCategorizationHandler_SearchMerchants(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "found", query: "?q=swiggy", wantStatus: http.StatusOK},
		{name: "missing q", query: "", wantStatus: http.StatusBadRequest},
		{name: "bad limit", query: "?q=swiggy&limit=zero", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, http.MethodGet, "/api/v1/merchants/search"+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := serve(mux, http.MethodGet, "/api/v1/merchants/search?q=swiggy&limit=3", "")
	var body struct {
		Data struct {
			Results []categorization.SearchResult `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Results)
	assert.Equal(t, "Swiggy", body.Data.Results[0].Document.CleanName)
}

func TestCategorizationHandler_Rules(t *testing.T) {
	mux, svc := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/v1/rules", `{"pattern":"chai point","clean_name":"Chai Point","category":"food & dining","priority":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data categorization.Rule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "CHAI POINT", created.Data.Pattern)
	assert.Equal(t, categorization.FoodDining, created.Data.Category)

	got := svc.Categorize(categorization.Input{Merchant: "CHAI POINT KORAMANGALA"})
	assert.Equal(t, categorization.FoodDining, got.Category)

	t.Run("invalid", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, "/api/v1/rules", `{"pattern":"x","category":"Groceries"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/v1/rules", "")
		var body struct {
			Data []categorization.Rule `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Data, 1)
	})

	t.Run("delete", func(t *testing.T) {
		rec := serve(mux, http.MethodDelete, "/api/v1/rules/"+created.Data.ID.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(mux, http.MethodDelete, "/api/v1/rules/"+created.Data.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = serve(mux, http.MethodDelete, "/api/v1/rules/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
