package entitlement

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fdg312/simplemeal/internal/userctx"
)

// Handlers — HTTP обработчики entitlement
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGet handles GET /v1/entitlement
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner := userctx.OwnerUserID(r.Context())

	ent, err := h.service.Get(r.Context(), owner)
	if err != nil {
		log.Printf("WARN: get entitlement: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get entitlement")
		return
	}

	writeJSON(w, http.StatusOK, h.service.toResponse(ent))
}

// HandleUpdate handles PUT /v1/entitlement
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner := userctx.OwnerUserID(r.Context())

	var req UpdateEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	ent, err := h.service.Set(r.Context(), owner, req.IsPremium, req.Plan)
	if err != nil {
		log.Printf("WARN: update entitlement: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update entitlement")
		return
	}

	writeJSON(w, http.StatusOK, h.service.toResponse(ent))
}

// HandleRefresh handles POST /v1/entitlement/refresh
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	owner := userctx.OwnerUserID(r.Context())

	ent, err := h.service.Refresh(r.Context(), owner)
	if err != nil {
		log.Printf("WARN: refresh entitlement: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to refresh entitlement")
		return
	}

	writeJSON(w, http.StatusOK, h.service.toResponse(ent))
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
