package repositories

import (
	"context"
	"database/sql"
	"time"

	"masterlink/internal/models"
)

type ResponseRepository struct {
	DB *sql.DB
}

const responseColumns = `id, request_id, user_id, price, comment, proposed_at, status, created_at, updated_at`

func scanResponse(row *sql.Row) (models.Response, error) {
	var resp models.Response
	err := row.Scan(
		&resp.ID,
		&resp.RequestID,
		&resp.UserID,
		&resp.Price,
		&resp.Comment,
		&resp.ProposedAt,
		&resp.Status,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		return models.Response{}, err
	}
	return resp, nil
}

func (r *ResponseRepository) GetByID(ctx context.Context, id int) (models.Response, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+responseColumns+` FROM request_responses WHERE id = ?`, id)
	return scanResponse(row)
}

func (r *ResponseRepository) GetByPair(ctx context.Context, requestID, userID int) (models.Response, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+responseColumns+` FROM request_responses WHERE request_id = ? AND user_id = ?`,
		requestID, userID,
	)
	return scanResponse(row)
}

func (r *ResponseRepository) Create(ctx context.Context, resp models.Response) (models.Response, error) {
	query := `
               INSERT INTO request_responses (request_id, user_id, price, comment, proposed_at, status, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)
       `

	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		resp.RequestID, resp.UserID, resp.Price, resp.Comment, resp.ProposedAt, models.ResponseStatusSent, now,
	)
	if err != nil {
		return models.Response{}, err
	}

	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Response{}, err
	}

	resp.ID = int(insertedID)
	resp.Status = models.ResponseStatusSent
	resp.CreatedAt = now
	return resp, nil
}

// Update amends price, comment and proposed time in place. Only a "sent"
// response may be amended.
func (r *ResponseRepository) Update(ctx context.Context, resp models.Response) (models.Response, error) {
	now := time.Now()
	_, err := r.DB.ExecContext(ctx,
		`UPDATE request_responses SET price = ?, comment = ?, proposed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		resp.Price, resp.Comment, resp.ProposedAt, now, resp.ID, models.ResponseStatusSent,
	)
	if err != nil {
		return models.Response{}, err
	}
	resp.Status = models.ResponseStatusSent
	resp.UpdatedAt = &now
	return resp, nil
}

// Accept performs the whole acceptance cascade in one transaction: the
// chosen response becomes accepted, every other sent response on the
// request is rejected, the request is closed, and all sent dispatches are
// expired. Partial application is never visible. The bool result reports
// whether this call performed the transition (false when the response was
// already accepted).
func (r *ResponseRepository) Accept(ctx context.Context, responseID int) (models.Response, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Response{}, false, err
	}
	defer tx.Rollback()

	var resp models.Response
	err = tx.QueryRowContext(ctx,
		`SELECT `+responseColumns+` FROM request_responses WHERE id = ? FOR UPDATE`, responseID,
	).Scan(
		&resp.ID,
		&resp.RequestID,
		&resp.UserID,
		&resp.Price,
		&resp.Comment,
		&resp.ProposedAt,
		&resp.Status,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, false, models.ErrNoRecord
		}
		return models.Response{}, false, err
	}

	switch resp.Status {
	case models.ResponseStatusAccepted:
		return resp, false, nil
	case models.ResponseStatusRejected:
		return models.Response{}, false, models.ErrResponseRejected
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE request_responses SET status = ?, updated_at = ? WHERE id = ?`,
		models.ResponseStatusAccepted, now, responseID,
	)
	if err != nil {
		return models.Response{}, false, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE request_responses SET status = ?, updated_at = ? WHERE request_id = ? AND id <> ? AND status = ?`,
		models.ResponseStatusRejected, now, resp.RequestID, responseID, models.ResponseStatusSent,
	)
	if err != nil {
		return models.Response{}, false, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ? WHERE id = ?`,
		models.RequestStatusClosed, resp.RequestID,
	)
	if err != nil {
		return models.Response{}, false, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE request_dispatches SET status = ? WHERE request_id = ? AND status = ?`,
		models.DispatchStatusExpired, resp.RequestID, models.DispatchStatusSent,
	)
	if err != nil {
		return models.Response{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return models.Response{}, false, err
	}

	resp.Status = models.ResponseStatusAccepted
	resp.UpdatedAt = &now
	return resp, true, nil
}

// Reject moves a sent response to rejected. Rejecting an accepted response
// is an error; rejecting twice is a no-op.
func (r *ResponseRepository) Reject(ctx context.Context, responseID int) (models.Response, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Response{}, err
	}
	defer tx.Rollback()

	var resp models.Response
	err = tx.QueryRowContext(ctx,
		`SELECT `+responseColumns+` FROM request_responses WHERE id = ? FOR UPDATE`, responseID,
	).Scan(
		&resp.ID,
		&resp.RequestID,
		&resp.UserID,
		&resp.Price,
		&resp.Comment,
		&resp.ProposedAt,
		&resp.Status,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, models.ErrNoRecord
		}
		return models.Response{}, err
	}

	switch resp.Status {
	case models.ResponseStatusAccepted:
		return models.Response{}, models.ErrResponseAccepted
	case models.ResponseStatusRejected:
		return resp, tx.Commit()
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE request_responses SET status = ?, updated_at = ? WHERE id = ?`,
		models.ResponseStatusRejected, now, responseID,
	)
	if err != nil {
		return models.Response{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Response{}, err
	}

	resp.Status = models.ResponseStatusRejected
	resp.UpdatedAt = &now
	return resp, nil
}
