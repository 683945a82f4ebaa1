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

// ApplicationRepository defines application database operations
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *models.Application) (int64, error)
	LinkAppliedCourses(ctx context.Context, applicationID int64, courseIDs []int64) error
	LinkApplicationSkills(ctx context.Context, applicationID int64, skillIDs []int64) error
	LinkApplicationCredentials(ctx context.Context, applicationID int64, credentialIDs []int64) error

	// FindApplications returns fully loaded applications matching q, newest first.
	FindApplications(ctx context.Context, q ApplicationQuery) ([]*models.Application, error)
	GetApplicationByID(ctx context.Context, id int64) (*models.Application, error)

	// RankHolder returns the id of another application holding rank, or 0.
	RankHolder(ctx context.Context, rank int, excludeID int64) (int64, error)
	ClearRanks(ctx context.Context, applicationIDs []int64) error
	UpdateApplicationDecision(ctx context.Context, app *models.Application) error
	ReplaceSelectedCourses(ctx context.Context, applicationID int64, courseIDs []int64) error
}

// CreateApplication inserts the application row and returns its id
func (s *PostgresStore) CreateApplication(ctx context.Context, app *models.Application) (int64, error) {
	previousRoles := app.PreviousRoles
	if previousRoles == nil {
		previousRoles = []string{}
	}

	row, err := s.queryRow(ctx, s.sb.Insert("applications").
		Columns("user_id", "session_type", "availability", "status", "is_selected", "rank", "comments", "submitted_at", "previous_roles").
		Values(app.UserID, app.SessionType, app.Availability, app.Status, app.IsSelected, app.Rank, app.Comments, app.Timestamp, previousRoles).
		Suffix("RETURNING id"))
	if err != nil {
		return 0, fmt.Errorf("failed to build create application query: %w", err)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		logger.Error().Err(err).Int64("userID", app.UserID).Msg("Error executing create application query")
		return 0, fmt.Errorf("error creating application: %w", err)
	}
	return id, nil
}

// LinkAppliedCourses records the courses an application applies for
func (s *PostgresStore) LinkAppliedCourses(ctx context.Context, applicationID int64, courseIDs []int64) error {
	if err := s.linkPairs(ctx, "application_applied_courses", "application_id", "course_id", applicationID, courseIDs); err != nil {
		return fmt.Errorf("error linking applied courses: %w", err)
	}
	return nil
}

// LinkApplicationSkills attaches skills to an application
func (s *PostgresStore) LinkApplicationSkills(ctx context.Context, applicationID int64, skillIDs []int64) error {
	if err := s.linkPairs(ctx, "application_skills", "application_id", "skill_id", applicationID, skillIDs); err != nil {
		return fmt.Errorf("error linking application skills: %w", err)
	}
	return nil
}

// LinkApplicationCredentials attaches credentials to an application
func (s *PostgresStore) LinkApplicationCredentials(ctx context.Context, applicationID int64, credentialIDs []int64) error {
	if err := s.linkPairs(ctx, "application_credentials", "application_id", "credential_id", applicationID, credentialIDs); err != nil {
		return fmt.Errorf("error linking application credentials: %w", err)
	}
	return nil
}

// FindApplications implements ApplicationRepository
func (s *PostgresStore) FindApplications(ctx context.Context, q ApplicationQuery) ([]*models.Application, error) {
	rows, err := s.query(ctx, buildApplicationQuery(s.sb, q))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing application query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		app := &models.Application{}
		if err := rows.Scan(&app.ID, &app.UserID, &app.SessionType, &app.Availability, &app.Status,
			&app.IsSelected, &app.Rank, &app.Comments, &app.Timestamp, &app.PreviousRoles); err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}

	if err := s.loadRelations(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApplicationByID retrieves one fully loaded application
func (s *PostgresStore) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	apps, err := s.FindApplications(ctx, ApplicationQuery{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrNotFound
	}
	return apps[0], nil
}

// RankHolder implements ApplicationRepository
func (s *PostgresStore) RankHolder(ctx context.Context, rank int, excludeID int64) (int64, error) {
	row, err := s.queryRow(ctx, s.sb.Select("id").
		From("applications").
		Where(squirrel.Eq{"rank": rank}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1))
	if err != nil {
		return 0, fmt.Errorf("failed to build rank lookup: %w", err)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("error looking up rank: %w", err)
	}
	return id, nil
}

// ClearRanks nulls the rank of the given applications so a batch can reassign them
func (s *PostgresStore) ClearRanks(ctx context.Context, applicationIDs []int64) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	_, err := s.exec(ctx, s.sb.Update("applications").
		Set("rank", nil).
		Where(squirrel.Eq{"id": applicationIDs}))
	if err != nil {
		return fmt.Errorf("error clearing ranks: %w", err)
	}
	return nil
}

// UpdateApplicationDecision writes status, selection, rank and comments in a single UPDATE
func (s *PostgresStore) UpdateApplicationDecision(ctx context.Context, app *models.Application) error {
	tag, err := s.exec(ctx, s.sb.Update("applications").
		SetMap(map[string]interface{}{
			"status":      app.Status,
			"is_selected": app.IsSelected,
			"rank":        app.Rank,
			"comments":    app.Comments,
		}).
		Where(squirrel.Eq{"id": app.ID}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintRankUnique) {
			return ErrRankTaken
		}
		logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Error updating application decision")
		return fmt.Errorf("error updating application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceSelectedCourses swaps the selected course set of an application
func (s *PostgresStore) ReplaceSelectedCourses(ctx context.Context, applicationID int64, courseIDs []int64) error {
	if _, err := s.exec(ctx, s.sb.Delete("application_selected_courses").
		Where(squirrel.Eq{"application_id": applicationID})); err != nil {
		return fmt.Errorf("error clearing selected courses: %w", err)
	}
	if err := s.linkPairs(ctx, "application_selected_courses", "application_id", "course_id", applicationID, courseIDs); err != nil {
		return fmt.Errorf("error linking selected courses: %w", err)
	}
	return nil
}
