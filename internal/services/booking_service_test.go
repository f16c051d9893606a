package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masterlink/internal/models"
)

type stubBookings struct {
	existing []models.Booking
	created  []models.Booking
}

func (s *stubBookings) ListActiveForDay(ctx context.Context, masterID int, day time.Time) ([]models.Booking, error) {
	return s.existing, nil
}

func (s *stubBookings) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.ID = len(s.created) + 1
	b.Status = models.BookingStatusConfirmed
	s.created = append(s.created, b)
	return b, nil
}

func bookingProfile() models.MasterProfile {
	return models.MasterProfile{
		UserID:        20,
		WorkDays:      []string{"mon", "tue"},
		WorkStartMin:  540,  // 09:00
		WorkEndMin:    1080, // 18:00
		HasWorkWindow: true,
		IsActive:      true,
	}
}

func newBookingService(profile models.MasterProfile, existing []models.Booking) (*BookingService, *stubBookings) {
	repo := &stubBookings{existing: existing}
	svc := &BookingService{
		BookingRepo: repo,
		MasterRepo:  &stubMasters{profile: profile},
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return svc, repo
}

// Monday 2025-06-02.
func mondayAt(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func TestCreateBookingOverlap(t *testing.T) {
	existing := []models.Booking{
		{MasterID: 20, StartAt: mondayAt(14, 0), DurationMin: 30, Status: models.BookingStatusConfirmed},
	}

	svc, repo := newBookingService(bookingProfile(), existing)

	// [14:15, 14:45) crosses [14:00, 14:30).
	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(14, 15), DurationMin: 30})
	if !errors.Is(err, models.ErrTimeUnavailable) {
		t.Fatalf("overlap: got %v, want ErrTimeUnavailable", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("rejected booking must not be persisted")
	}

	// [14:30, 15:00) starts exactly where the other ends.
	got, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(14, 30), DurationMin: 30})
	if err != nil {
		t.Fatalf("back-to-back booking rejected: %v", err)
	}
	if got.Status != models.BookingStatusConfirmed {
		t.Fatalf("status %q, want confirmed", got.Status)
	}
}

func TestCreateBookingDayUnavailable(t *testing.T) {
	svc, _ := newBookingService(bookingProfile(), nil)

	// Wednesday 2025-06-04 is not in {mon, tue}.
	wednesday := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: wednesday, DurationMin: 30})
	if !errors.Is(err, models.ErrDayUnavailable) {
		t.Fatalf("got %v, want ErrDayUnavailable", err)
	}
}

func TestCreateBookingOutsideWindow(t *testing.T) {
	svc, _ := newBookingService(bookingProfile(), nil)

	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(8, 0), DurationMin: 30})
	if !errors.Is(err, models.ErrTimeUnavailable) {
		t.Fatalf("before window: got %v, want ErrTimeUnavailable", err)
	}

	// 17:45 + 30min spills past 18:00.
	_, err = svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(17, 45), DurationMin: 30})
	if !errors.Is(err, models.ErrTimeUnavailable) {
		t.Fatalf("window spill: got %v, want ErrTimeUnavailable", err)
	}
}

func TestCreateBookingNoAvailability(t *testing.T) {
	svc, _ := newBookingService(models.MasterProfile{UserID: 20, IsActive: true}, nil)

	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(10, 0), DurationMin: 30})
	if !errors.Is(err, models.ErrScheduleUnavailable) {
		t.Fatalf("got %v, want ErrScheduleUnavailable", err)
	}
}

func TestCreateBookingInPast(t *testing.T) {
	svc, _ := newBookingService(bookingProfile(), nil)
	svc.Now = func() time.Time { return mondayAt(16, 0) }

	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(10, 0), DurationMin: 30})
	if !errors.Is(err, models.ErrTimeUnavailable) {
		t.Fatalf("got %v, want ErrTimeUnavailable", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newBookingService(bookingProfile(), nil)

	_, err := svc.CreateBooking(context.Background(), models.Booking{MasterID: 20, ClientID: 5, StartAt: mondayAt(10, 0)})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("zero duration: got %v, want ErrInvalidInput", err)
	}
}
