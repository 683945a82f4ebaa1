package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
)

type stubUsers map[int64]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func TestRoleFor(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{}, []string{" Head@Staff.rmit.edu.au "})

	assert.Equal(t, models.RoleAdmin, svc.RoleFor("head@staff.rmit.edu.au"))
	assert.Equal(t, models.RoleLecturer, svc.RoleFor("lee@staff.rmit.edu.au"))
	assert.Equal(t, models.RoleCandidate, svc.RoleFor("sam@student.rmit.edu.au"))
	assert.Equal(t, models.RoleType(""), svc.RoleFor("x@gmail.com"))
}

func TestValidateLecturer(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{
		1: {ID: 1, Email: "lee@staff.rmit.edu.au"},
		2: {ID: 2, Email: "sam@student.rmit.edu.au"},
	}, nil)

	user, err := svc.ValidateLecturer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = svc.ValidateLecturer(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorIs(t, err, apperrors.ErrNotLecturer)

	_, err = svc.ValidateLecturer(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCanSubmitFor(t *testing.T) {
	svc := NewAuthorizationService(stubUsers{}, nil)

	assert.True(t, svc.CanSubmitFor("sam@student.rmit.edu.au", models.RoleCandidate, "SAM@student.rmit.edu.au"))
	assert.False(t, svc.CanSubmitFor("sam@student.rmit.edu.au", models.RoleCandidate, "kim@student.rmit.edu.au"))
	assert.True(t, svc.CanSubmitFor("boss@staff.rmit.edu.au", models.RoleAdmin, "kim@student.rmit.edu.au"))
	assert.False(t, svc.CanSubmitFor("lee@staff.rmit.edu.au", models.RoleLecturer, "kim@student.rmit.edu.au"))
}
