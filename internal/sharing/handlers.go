package sharing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleShareMealPlan handles GET /v1/share/meal-plan?from=&to=
func (h *Handlers) HandleShareMealPlan(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	resp, err := h.service.EncodeMealPlan(r.Context(), from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleShareShoppingList handles GET /v1/share/shopping-list
func (h *Handlers) HandleShareShoppingList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.EncodeShoppingList(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleShareMeal handles GET /v1/share/meals/{id}
func (h *Handlers) HandleShareMeal(w http.ResponseWriter, r *http.Request) {
	idRaw := strings.TrimSpace(r.PathValue("id"))
	id, err := uuid.Parse(idRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid meal id")
		return
	}

	resp, err := h.service.EncodeMeal(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleImportPreview handles POST /v1/share/import/preview
func (h *Handlers) HandleImportPreview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImportRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Preview(r.Context(), req.URL)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleImportApply handles POST /v1/share/import/apply
func (h *Handlers) HandleImportApply(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImportRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Apply(r.Context(), req.URL)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeImportRequest(w http.ResponseWriter, r *http.Request) (ImportRequest, bool) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON body")
		return ImportRequest{}, false
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload", "url is required")
		return ImportRequest{}, false
	}
	return req, true
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
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrUnknownKind), errors.Is(err, ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, ErrMealNotFound):
		writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
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
