package exports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// ExportLinkResponse — ответ при доставке через blob storage
type ExportLinkResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleMealPlan handles GET /v1/exports/meal-plan?format=&from=&to=
func (h *Handlers) HandleMealPlan(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}
	format := strings.TrimSpace(r.URL.Query().Get("format"))

	result, err := h.service.ExportMealPlan(r.Context(), format, from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeResult(w, result)
}

// HandleShoppingList handles GET /v1/exports/shopping-list?format=
func (h *Handlers) HandleShoppingList(w http.ResponseWriter, r *http.Request) {
	format := strings.TrimSpace(r.URL.Query().Get("format"))

	result, err := h.service.ExportShoppingList(r.Context(), format)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeResult(w, result)
}

// writeResult sends either a download link (blob delivery) or the file
// body itself (inline delivery).
func writeResult(w http.ResponseWriter, result *Result) {
	if result.URL != "" {
		writeJSON(w, http.StatusOK, ExportLinkResponse{
			URL:      result.URL,
			FileName: result.FileName,
		})
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromRaw := strings.TrimSpace(r.URL.Query().Get("from"))
	toRaw := strings.TrimSpace(r.URL.Query().Get("to"))

	from, err := time.Parse("2006-01-02", fromRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid from date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", toRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid to date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "to must not precede from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}
