package usecase

import (
	"context"
	"fmt"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"
)

type authUsecase struct {
	passwordHash string
	secret       []byte
	ttl          time.Duration
	blacklist    domain.TokenBlacklist
}

// NewAuthUsecase authenticates the single shared teacher password.
func NewAuthUsecase(passwordHash string, secret []byte, ttl time.Duration, bl domain.TokenBlacklist) domain.AuthUsecase {
	return &authUsecase{
		passwordHash: passwordHash,
		secret:       secret,
		ttl:          ttl,
		blacklist:    bl,
	}
}

func (uc *authUsecase) Login(ctx context.Context, password string) (string, error) {
	if password == "" || uc.passwordHash == "" {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(password, uc.passwordHash) {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, _, err := utils.GenerateJWT(uc.secret, uc.ttl)
	return token, err
}

func (uc *authUsecase) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(uc.secret, token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return uc.blacklist.Revoke(ctx, claims.ID, expiresAt)
}

func (uc *authUsecase) Authenticate(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(uc.secret, token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if claims.Role != utils.TeacherRole {
		return fmt.Errorf("invalid role: %w", domain.ErrUnauthorized)
	}
	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return fmt.Errorf("token revoked: %w", domain.ErrUnauthorized)
	}
	return nil
}
