package usecase

import (
	"context"
	"testing"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestAuth(t *testing.T, bl domain.TokenBlacklist) domain.AuthUsecase {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	return NewAuthUsecase(hash, testSecret, time.Hour, bl)
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("correct password issues a teacher token", func(t *testing.T) {
		bl := new(MockTokenBlacklist)
		auth := newTestAuth(t, bl)

		token, err := auth.Login(ctx, "s3cret")
		require.NoError(t, err)

		claims, err := utils.ValidateJWT(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, utils.TeacherRole, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		auth := newTestAuth(t, new(MockTokenBlacklist))

		_, err := auth.Login(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty password", func(t *testing.T) {
		auth := newTestAuth(t, new(MockTokenBlacklist))

		_, err := auth.Login(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthUsecase_LogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	bl := new(MockTokenBlacklist)
	auth := newTestAuth(t, bl)

	token, err := auth.Login(ctx, "s3cret")
	require.NoError(t, err)
	claims, err := utils.ValidateJWT(testSecret, token)
	require.NoError(t, err)

	bl.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil).Once()
	assert.NoError(t, auth.Authenticate(ctx, token))

	bl.On("Revoke", mock.Anything, claims.ID, claims.ExpiresAt.Time).Return(nil).Once()
	require.NoError(t, auth.Logout(ctx, token))

	bl.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil).Once()
	assert.ErrorIs(t, auth.Authenticate(ctx, token), domain.ErrUnauthorized)

	bl.AssertExpectations(t)
}

func TestAuthUsecase_AuthenticateRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	bl := new(MockTokenBlacklist)
	auth := newTestAuth(t, bl)

	foreign, _, err := utils.GenerateJWT([]byte("other-secret"), time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, auth.Authenticate(ctx, foreign), domain.ErrUnauthorized)

	expired, _, err := utils.GenerateJWT(testSecret, -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, auth.Authenticate(ctx, expired), domain.ErrUnauthorized)

	assert.ErrorIs(t, auth.Logout(ctx, "garbage"), domain.ErrUnauthorized)
	bl.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}
