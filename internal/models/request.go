package models

import "time"

// LocationMode is where the client wants the work performed.
type LocationMode string

const (
	LocationClientSite LocationMode = "client"
	LocationMasterSite LocationMode = "master"
	LocationAny        LocationMode = "any"
)

func (m LocationMode) Valid() bool {
	switch m {
	case LocationClientSite, LocationMasterSite, LocationAny:
		return true
	}
	return false
}

// ScheduleMode is how the client picked a time for the request.
type ScheduleMode string

const (
	ScheduleToday    ScheduleMode = "today"
	ScheduleTomorrow ScheduleMode = "tomorrow"
	ScheduleChoose   ScheduleMode = "choose"
)

const (
	RequestStatusOpen   = "open"
	RequestStatusClosed = "closed"
)

type ServiceRequest struct {
	ID            int          `json:"id"`
	UserID        int          `json:"user_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	CityID        int          `json:"city_id"`
	DistrictID    int          `json:"district_id"`
	CategoryID    int          `json:"category_id"`
	LocationMode  LocationMode `json:"location_mode"`
	ScheduleMode  ScheduleMode `json:"schedule_mode"`
	ScheduledAt   *time.Time   `json:"scheduled_at,omitempty"`
	Status        string       `json:"status"`
	ShareLocation bool         `json:"share_location"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// DispatchReceipt is what the client sees right after posting a request:
// how many masters were notified and until when they may answer.
type DispatchReceipt struct {
	DispatchedCount int        `json:"dispatched_count"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}
