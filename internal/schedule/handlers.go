package schedule

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

// HandlePlan handles GET /v1/plan?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Без параметров берётся сохранённое окно планирования.
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.resolveWindow(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Plan(r.Context(), from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/plan/meals
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON body")
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleDelete handles DELETE /v1/plan/meals/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idRaw := strings.TrimSpace(r.PathValue("id"))
	id, err := uuid.Parse(idRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid schedule entry id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSettings handles GET /v1/plan/settings
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateSettings handles PUT /v1/plan/settings
func (h *Handlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON body")
		return
	}

	resp, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) resolveWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromRaw := strings.TrimSpace(r.URL.Query().Get("from"))
	toRaw := strings.TrimSpace(r.URL.Query().Get("to"))

	if fromRaw == "" && toRaw == "" {
		settings, err := h.service.GetSettings(r.Context())
		if err != nil {
			h.handleError(w, err)
			return time.Time{}, time.Time{}, false
		}
		from := settings.SelectedDate
		to := from.AddDate(0, 0, settings.NumberOfDays-1)
		return from, to, true
	}

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
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request")
	case errors.Is(err, ErrMealNotFound):
		writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
	case errors.Is(err, ErrLimitExceeded):
		writeError(w, http.StatusConflict, "limit_exceeded", "Daily meal limit reached for this plan")
	case errors.Is(err, ErrDateOutOfRange):
		writeError(w, http.StatusConflict, "limit_exceeded", "Date is outside the allowed planning horizon")
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
