package repositories

import (
	"context"
	"database/sql"
	"time"
)

type TokenRepository struct {
	DB *sql.DB
}

// Upsert stores the user's current FCM device token, one row per user.
func (r *TokenRepository) Upsert(ctx context.Context, userID int, token string) error {
	now := time.Now()
	_, err := r.DB.ExecContext(ctx, `
               INSERT INTO fcm_tokens (user_id, token, updated_at)
               VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE token = VALUES(token), updated_at = VALUES(updated_at)
       `, userID, token, now)
	return err
}

func (r *TokenRepository) GetByUserID(ctx context.Context, userID int) (string, error) {
	var token string
	err := r.DB.QueryRowContext(ctx, `SELECT token FROM fcm_tokens WHERE user_id = ?`, userID).Scan(&token)
	if err != nil {
		return "", err
	}
	return token, nil
}
