package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/logger"
)

// UserLookup is the part of the store the authorization checks read
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService resolves roles and checks role-bound permissions
type AuthorizationService struct {
	users  UserLookup
	admins map[string]struct{}
}

// NewAuthorizationService creates a new AuthorizationService. adminEmails are matched case-insensitively.
func NewAuthorizationService(users UserLookup, adminEmails []string) *AuthorizationService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &AuthorizationService{
		users:  users,
		admins: admins,
	}
}

// RoleFor returns the effective role of an email: configured admins first, then the domain rule.
func (s *AuthorizationService) RoleFor(email string) models.RoleType {
	if _, ok := s.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return models.RoleAdmin
	}
	return models.RoleForEmail(email)
}

// ValidateLecturer returns the user when it exists and holds the lecturer role
func (s *AuthorizationService) ValidateLecturer(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in ValidateLecturer")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if s.RoleFor(user.Email) != models.RoleLecturer {
		return nil, apperrors.Validation(apperrors.ErrNotLecturer)
	}
	return user, nil
}

// CanSubmitFor reports whether a caller may submit an application on behalf of email.
// Candidates may only submit for themselves; admins may submit for anyone.
func (s *AuthorizationService) CanSubmitFor(callerEmail string, callerRole models.RoleType, email string) bool {
	switch callerRole {
	case models.RoleAdmin:
		return true
	case models.RoleCandidate:
		return strings.EqualFold(strings.TrimSpace(callerEmail), strings.TrimSpace(email))
	default:
		return false
	}
}
