package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/pkg/dberrors"
	"github.com/tutorhub/selection/internal/pkg/logger"
)

// CourseRepository defines catalog database operations
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	GetCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error)
	GetCoursesByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

var courseColumns = []string{"id", "course_code", "name", "semester", "description"}

// CreateCourse creates a new course
func (s *PostgresStore) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	row, err := s.queryRow(ctx, s.sb.Insert("courses").
		Columns("course_code", "name", "semester", "description").
		Values(course.CourseCode, course.Name, course.Semester, course.Description).
		Suffix("RETURNING id"))
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCourseCodeUnique) {
			return 0, ErrCourseCodeTaken
		}
		logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// UpdateCourse updates an existing course
func (s *PostgresStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	tag, err := s.exec(ctx, s.sb.Update("courses").
		SetMap(map[string]interface{}{
			"course_code": course.CourseCode,
			"name":        course.Name,
			"semester":    course.Semester,
			"description": course.Description,
		}).
		Where(squirrel.Eq{"id": course.ID}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCourseCodeUnique) {
			return ErrCourseCodeTaken
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course and, through cascades, its links
func (s *PostgresStore) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := s.exec(ctx, s.sb.Delete("courses").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCourseByID retrieves a course by ID
func (s *PostgresStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	row, err := s.queryRow(ctx, s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c := &models.Course{}
	if err := row.Scan(&c.ID, &c.CourseCode, &c.Name, &c.Semester, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return c, nil
}

// GetAllCourses lists the catalog ordered by code
func (s *PostgresStore) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.listCourses(ctx, nil)
}

// GetCoursesByCodes returns the courses whose code exactly matches one of codes
func (s *PostgresStore) GetCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error) {
	if len(codes) == 0 {
		return []models.Course{}, nil
	}
	return s.listCourses(ctx, squirrel.Eq{"course_code": codes})
}

// GetCoursesByIDs returns the existing courses among ids
func (s *PostgresStore) GetCoursesByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	return s.listCourses(ctx, squirrel.Eq{"id": ids})
}

func (s *PostgresStore) listCourses(ctx context.Context, pred squirrel.Sqlizer) ([]models.Course, error) {
	q := s.sb.Select(courseColumns...).From("courses").OrderBy("course_code ASC")
	if pred != nil {
		q = q.Where(pred)
	}

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.Name, &c.Semester, &c.Description); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}
