package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"masterlink/internal/models"
	"masterlink/internal/services"
)

type TokenHandler struct {
	Service *services.TokenService
}

// SaveToken registers the caller's FCM device token for push delivery.
func (h *TokenHandler) SaveToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token string `json:"token"`
	}

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	input.Token = strings.TrimSpace(input.Token)
	if input.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	err = h.Service.SaveToken(r.Context(), callerID(r), input.Token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, "invalid_input", http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not save token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
