package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/logger"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store repositories.Store
}

// NewCourseService creates a new course service instance
func NewCourseService(store repositories.Store) CourseService {
	return &courseServiceImpl{
		store: store,
	}
}

// toCourse normalizes and validates a course request
func toCourse(req *dto.CourseRequest) (*models.Course, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))
	req.Name = strings.TrimSpace(req.Name)
	req.Semester = strings.TrimSpace(req.Semester)

	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	return &models.Course{
		CourseCode:  req.CourseCode,
		Name:        req.Name,
		Semester:    req.Semester,
		Description: req.Description,
	}, nil
}

func courseConflict(code string) error {
	return apperrors.NewCustomError(errors.Join(apperrors.ErrConflict, apperrors.ErrCourseAlreadyExists),
		fmt.Sprintf("course with code %s already exists", code))
}

// CreateCourse adds a course to the catalog
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	course, err := toCourse(req)
	if err != nil {
		return nil, err
	}

	course.ID, err = s.store.CreateCourse(ctx, course)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseCodeTaken) {
			return nil, courseConflict(course.CourseCode)
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	logger.Info().Int64("courseID", course.ID).Str("courseCode", course.CourseCode).Msg("Course created")
	return course, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.store.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.ErrCourseNotFound)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// GetAllCourses lists the catalog
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.store.GetAllCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse replaces the editable fields of a course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error) {
	course, err := toCourse(req)
	if err != nil {
		return nil, err
	}
	course.ID = id

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NotFound(apperrors.ErrCourseNotFound)
		case errors.Is(err, repositories.ErrCourseCodeTaken):
			return nil, courseConflict(course.CourseCode)
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course from the catalog
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(apperrors.ErrCourseNotFound)
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
