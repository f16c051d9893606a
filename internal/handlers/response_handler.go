package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"masterlink/internal/models"
	"masterlink/internal/services"
)

type ResponseHandler struct {
	Service *services.ResponseService
}

func (h *ResponseHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	var input models.Response

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	input.UserID = callerID(r)

	resp, err := h.Service.SubmitResponse(r.Context(), input)
	if err != nil {
		writeResponseError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *ResponseHandler) AcceptResponse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid response ID", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.AcceptResponse(r.Context(), id, callerID(r))
	if err != nil {
		writeResponseError(w, err)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

func (h *ResponseHandler) RejectResponse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid response ID", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.RejectResponse(r.Context(), id, callerID(r))
	if err != nil {
		writeResponseError(w, err)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// writeResponseError maps the response flow's reason codes onto statuses.
// The error text is the machine-readable code clients branch on.
func writeResponseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrEmptyResponse):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNoRecord):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrRequestClosed),
		errors.Is(err, models.ErrNotEligible),
		errors.Is(err, models.ErrNotDispatched),
		errors.Is(err, models.ErrWindowClosed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrResponseAccepted),
		errors.Is(err, models.ErrResponseRejected):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Could not process response", http.StatusInternalServerError)
	}
}
