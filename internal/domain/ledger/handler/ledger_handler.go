package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/ledger"
	"github.com/FACorreiaa/sms-finance-logger/pkg/middleware"
)

// isoLayouts are the date shapes accepted by POST /log, most specific first.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseISODate accepts ISO 8601 timestamps with or without an offset.
// Timestamps without one are taken as UTC.
func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// LedgerHandler serves the SMS logging and monthly sheet endpoints.
type LedgerHandler struct {
	svc       *ledger.Service
	apiPrefix string
	version   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(svc *ledger.Service, apiPrefix, version string, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		svc:       svc,
		apiPrefix: apiPrefix,
		version:   version,
		logger:    logger,
		now:       time.Now,
	}
}

// Register mounts every ledger route on mux.
func (h *LedgerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST "+h.apiPrefix+"/log", h.LogSMS)
	mux.HandleFunc("POST "+h.apiPrefix+"/parse-sms", h.ParseSMS)
	mux.HandleFunc("GET "+h.apiPrefix+"/sheets", h.ListSheets)
	mux.HandleFunc("GET "+h.apiPrefix+"/sheets/{month}", h.GetSheet)
	mux.HandleFunc("GET "+h.apiPrefix+"/sheets/{month}/download", h.DownloadSheet)
	mux.HandleFunc("GET "+h.apiPrefix+"/stats/{month}", h.GetStats)
	mux.HandleFunc("GET "+h.apiPrefix+"/entries/{id}", h.GetEntry)
	mux.HandleFunc("PATCH "+h.apiPrefix+"/entries/{id}", h.UpdateEntry)
}

func (h *LedgerHandler) sheetURL(m ledger.Month) string {
	return h.apiPrefix + "/sheets/" + m.String() + "/download"
}

// Health handles GET /health
func (h *LedgerHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
		"version":   h.version,
		"message":   "Finance SMS Logger is running",
	})
}

type logRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// LogSMS handles POST /api/v1/log
func (h *LedgerHandler) LogSMS(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "Request must be JSON")
		return
	}
	if req.Text == "" {
		middleware.WriteBadRequest(w, "'text' field is required")
		return
	}
	if req.Date == "" {
		middleware.WriteBadRequest(w, "'date' field is required")
		return
	}
	date, err := parseISODate(req.Date)
	if err != nil {
		middleware.WriteBadRequest(w, "Invalid date format. Use ISO format (YYYY-MM-DDTHH:MM:SS)")
		return
	}

	res, err := h.svc.LogSMS(r.Context(), req.Text, date)
	switch {
	case errors.Is(err, ledger.ErrInvalidSMS):
		middleware.WriteBadRequest(w, strings.TrimPrefix(err.Error(), ledger.ErrInvalidSMS.Error()+": "))
		return
	case errors.Is(err, ledger.ErrNotLoggable):
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"message":     "SMS does not contain valid transaction information",
			"reason":      strings.TrimPrefix(err.Error(), ledger.ErrNotLoggable.Error()+": "),
			"parsed_data": res.Record,
		})
		return
	case err != nil:
		h.logger.Error("failed to log transaction", slog.Any("error", err))
		middleware.WriteError(w, http.StatusInternalServerError,
			"Database error", "Failed to record transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Transaction logged successfully",
		"data": map[string]interface{}{
			"transaction_data": res.Record,
			"entry":            res.Entry,
			"date":             date.Format(time.RFC3339),
			"sheet_url":        h.sheetURL(res.Entry.Month),
		},
	})
}

// ParseSMS handles POST /api/v1/parse-sms
func (h *LedgerHandler) ParseSMS(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "Request must be JSON")
		return
	}
	if req.Text == "" {
		middleware.WriteBadRequest(w, "'text' field is required")
		return
	}

	explain := r.URL.Query().Get("explain") == "true"
	res, err := h.svc.ParseSMS(r.Context(), req.Text, explain)
	if errors.Is(err, ledger.ErrInvalidSMS) {
		middleware.WriteBadRequest(w, strings.TrimPrefix(err.Error(), ledger.ErrInvalidSMS.Error()+": "))
		return
	}
	if err != nil {
		h.logger.Error("failed to parse sms", slog.Any("error", err))
		middleware.WriteError(w, http.StatusInternalServerError, err.Error(), "Parser error")
		return
	}

	data := map[string]interface{}{
		"parsed_data":          res.Record,
		"is_valid_transaction": res.Loggable,
		"original_text":        req.Text,
		"category":             res.Category,
		"message":              "SMS parsed successfully",
	}
	if res.Reason != "" {
		data["reason"] = res.Reason
	}
	if res.Explanation != nil {
		data["explanation"] = res.Explanation
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// ListSheets handles GET /api/v1/sheets
func (h *LedgerHandler) ListSheets(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.Months(r.Context())
	if err != nil {
		h.logger.Error("failed to list sheets", slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	sheets := make([]map[string]string, 0, len(months))
	for _, m := range months {
		sheets = append(sheets, map[string]string{
			"month_year": m.String(),
			"sheet_url":  h.sheetURL(m),
		})
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"sheets": sheets,
			"count":  len(sheets),
		},
	})
}

// monthParam parses the {month} path value, writing a 400 when it is invalid.
func monthParam(w http.ResponseWriter, r *http.Request) (ledger.Month, bool) {
	m, err := ledger.ParseMonth(r.PathValue("month"))
	if err != nil {
		middleware.WriteBadRequest(w, "Invalid month-year format. Use format: 'July-2025'")
		return ledger.Month{}, false
	}
	return m, true
}

// GetSheet handles GET /api/v1/sheets/{month}
func (h *LedgerHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	data := map[string]interface{}{
		"month_year": r.PathValue("month"),
		"sheet_url":  nil,
		"exists":     false,
	}

	entries, err := h.svc.Entries(r.Context(), month)
	switch {
	case errors.Is(err, ledger.ErrSheetNotFound):
	case err != nil:
		h.logger.Error("failed to read sheet", slog.String("month", month.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	default:
		data["sheet_url"] = h.sheetURL(month)
		data["exists"] = true
		data["row_count"] = len(entries)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// DownloadSheet handles GET /api/v1/sheets/{month}/download
func (h *LedgerHandler) DownloadSheet(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "xlsx":
		err = h.svc.ExportMonth(r.Context(), month, &buf)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = month.String() + ".xlsx"
	case "csv":
		err = h.svc.ExportMonthCSV(r.Context(), month, &buf)
		contentType = "text/csv; charset=utf-8"
		filename = month.String() + ".csv"
	default:
		middleware.WriteBadRequest(w, fmt.Sprintf("Unsupported format %q, use xlsx or csv", format))
		return
	}

	if errors.Is(err, ledger.ErrSheetNotFound) {
		middleware.WriteError(w, http.StatusNotFound, err.Error(), "Sheet not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to export sheet", slog.String("month", month.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetStats handles GET /api/v1/stats/{month}
func (h *LedgerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.MonthlyStats(r.Context(), month)
	if errors.Is(err, ledger.ErrSheetNotFound) {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("Sheet '%s' not found", month), "Sheet not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to compute stats", slog.String("month", month.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
		"message": "Monthly spend statistics retrieved successfully",
	})
}

func entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteBadRequest(w, "Invalid entry ID")
		return uuid.Nil, false
	}
	return id, true
}

// GetEntry handles GET /api/v1/entries/{id}
func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.Entry(r.Context(), id)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		middleware.WriteError(w, http.StatusNotFound, err.Error(), "Entry not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get entry", slog.String("id", id.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entry,
	})
}

// UpdateEntry handles PATCH /api/v1/entries/{id}
func (h *LedgerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var req ledger.EntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.svc.UpdateEntry(r.Context(), id, req)
	switch {
	case errors.Is(err, ledger.ErrInvalidUpdate):
		middleware.WriteBadRequest(w, err.Error())
		return
	case errors.Is(err, ledger.ErrEntryNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error(), "Entry not found")
		return
	case err != nil:
		h.logger.Error("failed to update entry", slog.String("id", id.String()), slog.Any("error", err))
		middleware.WriteInternalError(w)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entry,
		"message": "Entry updated",
	})
}
