package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

type BookingStore interface {
	ListActiveForDay(ctx context.Context, masterID int, day time.Time) ([]models.Booking, error)
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
}

type BookingService struct {
	BookingRepo BookingStore
	MasterRepo  MasterSource
	// now is swappable in tests; nil means time.Now.
	Now func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBooking validates the slot against the master's weekly window and
// the master's existing bookings of that day, then persists it. Any
// violation is a rejection, never a silent adjustment.
func (s *BookingService) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	if b.MasterID <= 0 || b.ClientID <= 0 || b.DurationMin <= 0 || b.StartAt.IsZero() {
		return models.Booking{}, models.ErrInvalidInput
	}

	profile, err := s.MasterRepo.GetProfile(ctx, b.MasterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, models.ErrNoRecord
		}
		return models.Booking{}, err
	}

	if len(profile.WorkDays) == 0 || !profile.HasWorkWindow {
		return models.Booking{}, models.ErrScheduleUnavailable
	}

	dayKey := dispatch.DayKey(b.StartAt)
	dayListed := false
	for _, d := range profile.WorkDays {
		if d == dayKey {
			dayListed = true
			break
		}
	}
	if !dayListed {
		return models.Booking{}, models.ErrDayUnavailable
	}

	startMin := dispatch.MinuteOfDay(b.StartAt)
	endMin := startMin + b.DurationMin
	if startMin < profile.WorkStartMin || endMin > profile.WorkEndMin {
		return models.Booking{}, models.ErrTimeUnavailable
	}

	if b.StartAt.Before(s.now()) {
		return models.Booking{}, models.ErrTimeUnavailable
	}

	existing, err := s.BookingRepo.ListActiveForDay(ctx, b.MasterID, b.StartAt)
	if err != nil {
		return models.Booking{}, err
	}

	newStart, newEnd := b.StartAt, b.EndAt()
	for _, ex := range existing {
		// Half-open intervals: [start, end) touching back to back is fine.
		if newStart.Before(ex.EndAt()) && newEnd.After(ex.StartAt) {
			return models.Booking{}, models.ErrTimeUnavailable
		}
	}

	return s.BookingRepo.Create(ctx, b)
}
