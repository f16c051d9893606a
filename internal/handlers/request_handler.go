package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"masterlink/internal/models"
	"masterlink/internal/services"
)

type RequestHandler struct {
	Service *services.RequestService
}

// CreateRequest persists a new request and reports how many masters were
// notified by the synchronous initial batch.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var input models.ServiceRequest

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	input.UserID = callerID(r)

	created, receipt, err := h.Service.CreateRequest(r.Context(), input)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, "invalid_input", http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not create request", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Request models.ServiceRequest `json:"request"`
		models.DispatchReceipt
	}{Request: created, DispatchReceipt: receipt})
}

// GetDispatches shows the owner the fan-out progress of their request.
func (h *RequestHandler) GetDispatches(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	summary, err := h.Service.GetDispatchSummary(r.Context(), id, callerID(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoRecord):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Could not load dispatches", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(summary)
}
