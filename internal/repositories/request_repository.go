package repositories

import (
	"context"
	"database/sql"
	"time"

	"masterlink/internal/models"
)

type RequestRepository struct {
	DB *sql.DB
}

func (r *RequestRepository) Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	query := `
               INSERT INTO requests (user_id, title, description, city_id, district_id, category_id,
                                     location_mode, schedule_mode, scheduled_at, status, share_location,
                                     latitude, longitude, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
       `

	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		req.UserID, req.Title, req.Description, req.CityID, req.DistrictID, req.CategoryID,
		string(req.LocationMode), string(req.ScheduleMode), req.ScheduledAt, models.RequestStatusOpen,
		req.ShareLocation, req.Latitude, req.Longitude, now,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceRequest{}, err
	}

	req.ID = int(insertedID)
	req.Status = models.RequestStatusOpen
	req.CreatedAt = now
	return req, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	var req models.ServiceRequest
	var locationMode, scheduleMode string

	query := `
               SELECT id, user_id, title, description, city_id, district_id, category_id,
                      location_mode, schedule_mode, scheduled_at, status, share_location,
                      latitude, longitude, created_at
               FROM requests WHERE id = ?
       `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.Title,
		&req.Description,
		&req.CityID,
		&req.DistrictID,
		&req.CategoryID,
		&locationMode,
		&scheduleMode,
		&req.ScheduledAt,
		&req.Status,
		&req.ShareLocation,
		&req.Latitude,
		&req.Longitude,
		&req.CreatedAt,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	req.LocationMode = models.LocationMode(locationMode)
	req.ScheduleMode = models.ScheduleMode(scheduleMode)
	return req, nil
}
