package models

import "time"

// ThreadCreatedEvent is emitted once, on first-time acceptance of a
// response. The chat subsystem consumes it and opens the conversation.
type ThreadCreatedEvent struct {
	EventID     string    `json:"event_id"`
	RequestID   int       `json:"request_id"`
	ResponseID  int       `json:"response_id"`
	ClientID    int       `json:"client_id"`
	MasterID    int       `json:"master_id"`
	ServiceName string    `json:"service_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// OfferSentEvent is emitted for every dispatch row written by a batch.
type OfferSentEvent struct {
	EventID   string    `json:"event_id"`
	RequestID int       `json:"request_id"`
	MasterID  int       `json:"master_id"`
	BatchNo   int       `json:"batch_no"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WSEvent is the frame pushed to connected websocket clients.
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
