package models

import "time"

const (
	DispatchStatusSent      = "sent"
	DispatchStatusResponded = "responded"
	DispatchStatusExpired   = "expired"
)

// Dispatch records that a request was offered to a master. At most one row
// exists per (request, master) pair; a master is never re-offered the same
// request.
type Dispatch struct {
	ID        int       `json:"id"`
	RequestID int       `json:"request_id"`
	MasterID  int       `json:"master_id"`
	BatchNo   int       `json:"batch_no"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DispatchSummary is the owner-visible progress of a request's fan-out.
type DispatchSummary struct {
	Total      int        `json:"total"`
	Sent       int        `json:"sent"`
	Responded  int        `json:"responded"`
	Expired    int        `json:"expired"`
	MaxBatch   int        `json:"max_batch"`
	NextExpiry *time.Time `json:"next_expiry,omitempty"`
}
