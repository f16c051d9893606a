package repositories

import (
	"context"
	"database/sql"
	"time"

	"masterlink/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

// ListActiveForDay returns the master's non-cancelled, non-declined
// bookings starting on the given calendar day.
func (r *BookingRepository) ListActiveForDay(ctx context.Context, masterID int, day time.Time) ([]models.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
               SELECT id, master_id, client_id, start_at, duration_min, status, created_at
               FROM bookings
               WHERE master_id = ?
                 AND status NOT IN (?, ?)
                 AND start_at >= ? AND start_at < ?
       `

	rows, err := r.DB.QueryContext(ctx, query,
		masterID, models.BookingStatusCancelled, models.BookingStatusDeclined, dayStart, dayEnd,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.MasterID, &b.ClientID, &b.StartAt, &b.DurationMin, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	query := `
               INSERT INTO bookings (master_id, client_id, start_at, duration_min, status, created_at)
               VALUES (?, ?, ?, ?, ?, ?)
       `

	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		b.MasterID, b.ClientID, b.StartAt, b.DurationMin, models.BookingStatusConfirmed, now,
	)
	if err != nil {
		return models.Booking{}, err
	}

	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}

	b.ID = int(insertedID)
	b.Status = models.BookingStatusConfirmed
	b.CreatedAt = now
	return b, nil
}
