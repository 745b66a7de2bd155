package auth

import (
	"encoding/json"
	"net/http"
)

// Handlers — HTTP обработчики авторизации
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev — local dev token without an IdP.
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SignInDev()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to issue dev token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
