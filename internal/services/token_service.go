package services

import (
	"context"

	"masterlink/internal/models"
)

type TokenStore interface {
	Upsert(ctx context.Context, userID int, token string) error
}

type TokenService struct {
	TokenRepo TokenStore
}

func (s *TokenService) SaveToken(ctx context.Context, userID int, token string) error {
	if userID <= 0 || token == "" {
		return models.ErrInvalidInput
	}
	return s.TokenRepo.Upsert(ctx, userID, token)
}
