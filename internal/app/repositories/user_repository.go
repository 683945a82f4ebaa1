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

// UserRepository defines user-related database operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUsersBlocked(ctx context.Context, userIDs []int64, blocked bool) (int64, error)
	ReplaceLecturerCourses(ctx context.Context, userID int64, courseIDs []int64) error
	LinkUserSkills(ctx context.Context, userID int64, skillIDs []int64) error
	LinkUserCredentials(ctx context.Context, userID int64, credentialIDs []int64) error
}

var userColumns = []string{"id", "first_name", "last_name", "username", "email", "password", "is_blocked", "date_of_joining"}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.Password, &u.IsBlocked, &u.DateOfJoining)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser inserts a user and returns its id
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	row, err := s.queryRow(ctx, s.sb.Insert("users").
		Columns("first_name", "last_name", "username", "email", "password", "is_blocked", "date_of_joining").
		Values(user.FirstName, user.LastName, user.Username, user.Email, user.Password, user.IsBlocked, user.DateOfJoining).
		Suffix("RETURNING id"))
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUserEmailUnique):
			return 0, ErrEmailTaken
		case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUsernameUnique):
			return 0, ErrUsernameTaken
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by ID
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"id": id})
}

// GetUserByEmail retrieves a user by email, ignoring case
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (s *PostgresStore) getUser(ctx context.Context, pred squirrel.Sqlizer) (*models.User, error) {
	row, err := s.queryRow(ctx, s.sb.Select(userColumns...).From("users").Where(pred).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// SetUsersBlocked flips is_blocked for the given users and reports how many rows changed
func (s *PostgresStore) SetUsersBlocked(ctx context.Context, userIDs []int64, blocked bool) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	tag, err := s.exec(ctx, s.sb.Update("users").
		Set("is_blocked", blocked).
		Where(squirrel.Eq{"id": userIDs}).
		Where(squirrel.NotEq{"is_blocked": blocked}))
	if err != nil {
		return 0, fmt.Errorf("error updating blocked users: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ReplaceLecturerCourses swaps the lecturer's assigned courses for courseIDs
func (s *PostgresStore) ReplaceLecturerCourses(ctx context.Context, userID int64, courseIDs []int64) error {
	if _, err := s.exec(ctx, s.sb.Delete("lecturer_courses").Where(squirrel.Eq{"user_id": userID})); err != nil {
		return fmt.Errorf("error clearing lecturer courses: %w", err)
	}
	if err := s.linkPairs(ctx, "lecturer_courses", "user_id", "course_id", userID, courseIDs); err != nil {
		return fmt.Errorf("error assigning lecturer courses: %w", err)
	}
	return nil
}

// LinkUserSkills records skills the user has declared
func (s *PostgresStore) LinkUserSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	if err := s.linkPairs(ctx, "user_skills", "user_id", "skill_id", userID, skillIDs); err != nil {
		return fmt.Errorf("error linking user skills: %w", err)
	}
	return nil
}

// LinkUserCredentials records credentials owned by the user
func (s *PostgresStore) LinkUserCredentials(ctx context.Context, userID int64, credentialIDs []int64) error {
	if err := s.linkPairs(ctx, "user_credentials", "user_id", "credential_id", userID, credentialIDs); err != nil {
		return fmt.Errorf("error linking user credentials: %w", err)
	}
	return nil
}
