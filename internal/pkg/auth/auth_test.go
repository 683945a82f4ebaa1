package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/selection/internal/app/models"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "selection.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: 7, Email: "lee@staff.rmit.edu.au"}

	token, expiresIn, err := svc.GenerateToken(user, models.RoleLecturer)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleLecturer, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	user := &models.User{ID: 1, Email: "sam@student.rmit.edu.au"}

	expired, _, err := svc.GenerateToken(user, models.RoleCandidate)
	require.NoError(t, err)
	_, err = newTestService().ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "selection.test"})
	foreign, _, err := other.GenerateToken(user, models.RoleCandidate)
	require.NoError(t, err)
	_, err = newTestService().ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
