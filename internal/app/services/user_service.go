package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/tutorhub/selection/internal/app/auth"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// UserService defines admin operations on users
type UserService interface {
	AssignLecturerToCourses(ctx context.Context, lecturerID int64, req *dto.AssignCoursesRequest) ([]models.Course, error)
	BlockUsers(ctx context.Context, req *dto.BlockUsersRequest) (int64, error)
}

type userServiceImpl struct {
	store  repositories.Store
	authz  *appAuth.AuthorizationService
	logger zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(store repositories.Store, authz *appAuth.AuthorizationService, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		store:  store,
		authz:  authz,
		logger: logger,
	}
}

// AssignLecturerToCourses replaces the lecturer's course assignments. Every course id must exist.
func (s *userServiceImpl) AssignLecturerToCourses(ctx context.Context, lecturerID int64, req *dto.AssignCoursesRequest) ([]models.Course, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	var courses []models.Course
	err := s.store.InTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := s.authz.ValidateLecturer(ctx, lecturerID); err != nil {
			return err
		}

		var err error
		courses, err = tx.GetCoursesByIDs(ctx, req.CourseIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve courses: %w", err)
		}
		found := make(map[int64]bool, len(courses))
		ids := make([]int64, 0, len(courses))
		for _, c := range courses {
			found[c.ID] = true
			ids = append(ids, c.ID)
		}
		for _, id := range req.CourseIDs {
			if !found[id] {
				return apperrors.NewResourceNotFoundError(fmt.Sprintf("course %d not found", id))
			}
		}

		return tx.ReplaceLecturerCourses(ctx, lecturerID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("lecturerID", lecturerID).Int("courses", len(courses)).Msg("Lecturer courses assigned")
	return courses, nil
}

// BlockUsers sets the blocked flag on the given users and returns how many changed
func (s *userServiceImpl) BlockUsers(ctx context.Context, req *dto.BlockUsersRequest) (int64, error) {
	if req == nil {
		return 0, apperrors.NewValidationError("request body is required")
	}
	if err := validation.Struct(req); err != nil {
		return 0, validationFailure(err)
	}

	affected, err := s.store.SetUsersBlocked(ctx, req.UserIDs, req.Blocked)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update blocked users")
		return 0, fmt.Errorf("failed to update users: %w", err)
	}

	s.logger.Info().Bool("blocked", req.Blocked).Int64("affected", affected).Msg("User block state updated")
	return affected, nil
}
