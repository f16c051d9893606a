package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusDeclined  = "declined"
)

// Booking is a direct client appointment with a master. Non-cancelled,
// non-declined bookings of one master never overlap in time.
type Booking struct {
	ID          int       `json:"id"`
	MasterID    int       `json:"master_id"`
	ClientID    int       `json:"client_id"`
	StartAt     time.Time `json:"start_at"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMin) * time.Minute)
}
