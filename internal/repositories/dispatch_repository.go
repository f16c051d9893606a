package repositories

import (
	"context"
	"database/sql"
	"time"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

type DispatchRepository struct {
	DB *sql.DB
}

// InsertBatch writes one dispatch row per master inside a single
// transaction and returns the master IDs actually inserted. INSERT IGNORE
// absorbs the unique-key conflict when a concurrent cycle already offered
// the request to the same master.
func (r *DispatchRepository) InsertBatch(ctx context.Context, requestID int, masterIDs []int, batchNo int, sentAt, expiresAt time.Time) ([]int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
               INSERT IGNORE INTO request_dispatches (request_id, master_id, batch_no, status, sent_at, expires_at)
               VALUES (?, ?, ?, ?, ?, ?)
       `

	inserted := make([]int, 0, len(masterIDs))
	for _, masterID := range masterIDs {
		result, err := tx.ExecContext(ctx, query, requestID, masterID, batchNo, models.DispatchStatusSent, sentAt, expiresAt)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected > 0 {
			inserted = append(inserted, masterID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// ExpireDue marks every sent dispatch whose window has passed as expired.
func (r *DispatchRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE request_dispatches SET status = ? WHERE status = ? AND expires_at <= ?`,
		models.DispatchStatusExpired, models.DispatchStatusSent, now,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListAwaiting returns open requests that never received a response and
// have no live dispatch outstanding, with their dispatch history counts.
func (r *DispatchRepository) ListAwaiting(ctx context.Context, now time.Time) ([]dispatch.AwaitingRequest, error) {
	query := `
               SELECT r.id, r.user_id, r.title, r.description, r.city_id, r.district_id, r.category_id,
                      r.location_mode, r.schedule_mode, r.scheduled_at, r.status, r.share_location,
                      r.latitude, r.longitude, r.created_at,
                      COUNT(d.id), COALESCE(MAX(d.batch_no), 0)
               FROM requests r
               LEFT JOIN request_dispatches d ON d.request_id = r.id
               WHERE r.status = ?
                 AND NOT EXISTS (SELECT 1 FROM request_responses rr WHERE rr.request_id = r.id)
                 AND NOT EXISTS (
                       SELECT 1 FROM request_dispatches ld
                       WHERE ld.request_id = r.id AND ld.status = ? AND ld.expires_at > ?
                 )
               GROUP BY r.id, r.user_id, r.title, r.description, r.city_id, r.district_id, r.category_id,
                        r.location_mode, r.schedule_mode, r.scheduled_at, r.status, r.share_location,
                        r.latitude, r.longitude, r.created_at
       `

	rows, err := r.DB.QueryContext(ctx, query, models.RequestStatusOpen, models.DispatchStatusSent, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dispatch.AwaitingRequest
	for rows.Next() {
		var (
			aw           dispatch.AwaitingRequest
			locationMode string
			scheduleMode string
		)
		if err := rows.Scan(
			&aw.Request.ID,
			&aw.Request.UserID,
			&aw.Request.Title,
			&aw.Request.Description,
			&aw.Request.CityID,
			&aw.Request.DistrictID,
			&aw.Request.CategoryID,
			&locationMode,
			&scheduleMode,
			&aw.Request.ScheduledAt,
			&aw.Request.Status,
			&aw.Request.ShareLocation,
			&aw.Request.Latitude,
			&aw.Request.Longitude,
			&aw.Request.CreatedAt,
			&aw.TotalDispatches,
			&aw.MaxBatch,
		); err != nil {
			return nil, err
		}
		aw.Request.LocationMode = models.LocationMode(locationMode)
		aw.Request.ScheduleMode = models.ScheduleMode(scheduleMode)
		out = append(out, aw)
	}
	return out, rows.Err()
}

func (r *DispatchRepository) GetByPair(ctx context.Context, requestID, masterID int) (models.Dispatch, error) {
	var d models.Dispatch
	query := `
               SELECT id, request_id, master_id, batch_no, status, sent_at, expires_at
               FROM request_dispatches WHERE request_id = ? AND master_id = ?
       `
	err := r.DB.QueryRowContext(ctx, query, requestID, masterID).Scan(
		&d.ID,
		&d.RequestID,
		&d.MasterID,
		&d.BatchNo,
		&d.Status,
		&d.SentAt,
		&d.ExpiresAt,
	)
	if err != nil {
		return models.Dispatch{}, err
	}
	return d, nil
}

func (r *DispatchRepository) MarkResponded(ctx context.Context, requestID, masterID int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE request_dispatches SET status = ? WHERE request_id = ? AND master_id = ? AND status = ?`,
		models.DispatchStatusResponded, requestID, masterID, models.DispatchStatusSent,
	)
	return err
}

func (r *DispatchRepository) SummaryByRequest(ctx context.Context, requestID int) (models.DispatchSummary, error) {
	var s models.DispatchSummary
	query := `
               SELECT COUNT(*),
                      COALESCE(SUM(status = 'sent'), 0),
                      COALESCE(SUM(status = 'responded'), 0),
                      COALESCE(SUM(status = 'expired'), 0),
                      COALESCE(MAX(batch_no), 0)
               FROM request_dispatches WHERE request_id = ?
       `
	err := r.DB.QueryRowContext(ctx, query, requestID).Scan(&s.Total, &s.Sent, &s.Responded, &s.Expired, &s.MaxBatch)
	if err != nil {
		return models.DispatchSummary{}, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT MIN(expires_at) FROM request_dispatches WHERE request_id = ? AND status = ?`,
		requestID, models.DispatchStatusSent,
	).Scan(&s.NextExpiry)
	if err != nil && err != sql.ErrNoRows {
		return models.DispatchSummary{}, err
	}
	return s, nil
}
