package models

import "time"

const (
	ResponseStatusSent     = "sent"
	ResponseStatusAccepted = "accepted"
	ResponseStatusRejected = "rejected"
)

// Response is a master's reply to a request. One row per (request, master);
// resubmission amends the row in place while it is still "sent".
type Response struct {
	ID         int        `json:"id"`
	RequestID  int        `json:"request_id"`
	UserID     int        `json:"user_id"`
	Price      *float64   `json:"price,omitempty"`
	Comment    string     `json:"comment"`
	ProposedAt *time.Time `json:"proposed_at,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Empty reports whether the reply carries no content at all. At least one of
// price, comment or proposed time is required.
func (r Response) Empty() bool {
	return r.Price == nil && r.Comment == "" && r.ProposedAt == nil
}
