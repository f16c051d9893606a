package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"masterlink/internal/models"
	"masterlink/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input models.Booking

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	input.ClientID = callerID(r)

	booking, err := h.Service.CreateBooking(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrNoRecord):
			http.Error(w, "Master not found", http.StatusNotFound)
		case errors.Is(err, models.ErrScheduleUnavailable),
			errors.Is(err, models.ErrDayUnavailable),
			errors.Is(err, models.ErrTimeUnavailable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Could not create booking", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}
