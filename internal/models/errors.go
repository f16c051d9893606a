package models

import (
	"errors"
)

var (
	ErrNoRecord     = errors.New("models: no matching record found")
	ErrForbidden    = errors.New("models: forbidden")
	ErrInvalidInput = errors.New("invalid_input")
)

// Reason codes returned by the dispatch and booking flows. Handlers write
// the error text verbatim so clients can branch on it.
var (
	ErrRequestClosed       = errors.New("request_closed")
	ErrNotEligible         = errors.New("not_eligible")
	ErrNotDispatched       = errors.New("not_dispatched")
	ErrWindowClosed        = errors.New("window_closed")
	ErrEmptyResponse       = errors.New("empty_response")
	ErrResponseAccepted    = errors.New("response_accepted")
	ErrResponseRejected    = errors.New("response_rejected")
	ErrScheduleUnavailable = errors.New("schedule_unavailable")
	ErrDayUnavailable      = errors.New("day_unavailable")
	ErrTimeUnavailable     = errors.New("time_unavailable")
)
