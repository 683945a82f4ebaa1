package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/helpers"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// ApplicationService defines tutor application intake, querying and lecturer decisions
type ApplicationService interface {
	CreateApplication(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.CreateApplicationResponse, error)
	GetAllApplications(ctx context.Context) ([]*models.Application, error)
	QueryApplications(ctx context.Context, filter dto.ApplicationFilter) ([]*models.Application, error)
	GetApplicationsByEmail(ctx context.Context, email string) ([]*models.Application, error)
	UpdateApplicationDecision(ctx context.Context, id int64, req *dto.UpdateDecisionRequest) (*models.Application, error)
	SubmitDecisions(ctx context.Context, req *dto.SubmitDecisionsRequest) ([]*models.Application, error)
}

// applicationServiceImpl implements the ApplicationService interface
type applicationServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewApplicationService creates a new application service instance
func NewApplicationService(store repositories.Store, logger zerolog.Logger) ApplicationService {
	return &applicationServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// intake is a validated submission ready to be written
type intake struct {
	email         string
	courseCodes   []string
	sessionType   models.SessionType
	availability  models.Availability
	previousRoles []string
	skills        []string
	credentials   []models.AcademicCredential
	submittedAt   time.Time
}

// CreateApplication stores a candidate submission with its courses, skills and credentials in one transaction
func (s *applicationServiceImpl) CreateApplication(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.CreateApplicationResponse, error) {
	in, err := s.parseIntake(req)
	if err != nil {
		return nil, err
	}

	var appID int64
	var courseCount int
	err = s.store.InTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.GetUserByEmail(ctx, in.email)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NotFound(apperrors.ErrUserNotFound)
			}
			return fmt.Errorf("failed to load candidate: %w", err)
		}

		courses, err := tx.GetCoursesByCodes(ctx, in.courseCodes)
		if err != nil {
			return fmt.Errorf("failed to resolve courses: %w", err)
		}
		if len(courses) == 0 {
			return apperrors.NotFound(apperrors.ErrNoMatchingCourses)
		}

		appID, err = tx.CreateApplication(ctx, &models.Application{
			UserID:        user.ID,
			SessionType:   in.sessionType,
			Availability:  in.availability,
			Status:        models.StatusPending,
			IsSelected:    false,
			Timestamp:     in.submittedAt,
			PreviousRoles: in.previousRoles,
		})
		if err != nil {
			return err
		}

		courseIDs := make([]int64, len(courses))
		for i, c := range courses {
			courseIDs[i] = c.ID
		}
		if err := tx.LinkAppliedCourses(ctx, appID, courseIDs); err != nil {
			return err
		}
		courseCount = len(courses)

		skills, err := tx.UpsertSkills(ctx, in.skills)
		if err != nil {
			return err
		}
		skillIDs := make([]int64, len(skills))
		for i, sk := range skills {
			skillIDs[i] = sk.ID
		}
		if err := tx.LinkApplicationSkills(ctx, appID, skillIDs); err != nil {
			return err
		}
		if err := tx.LinkUserSkills(ctx, user.ID, skillIDs); err != nil {
			return err
		}

		var credentialIDs, createdIDs []int64
		for _, cred := range in.credentials {
			stored, created, err := tx.UpsertCredential(ctx, cred)
			if err != nil {
				return err
			}
			credentialIDs = append(credentialIDs, stored.ID)
			if created {
				createdIDs = append(createdIDs, stored.ID)
			}
		}
		if err := tx.LinkApplicationCredentials(ctx, appID, credentialIDs); err != nil {
			return err
		}
		return tx.LinkUserCredentials(ctx, user.ID, createdIDs)
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error().Err(err).Str("email", in.email).Msg("Failed to create application")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("applicationID", appID).
		Str("email", in.email).
		Int("courseCount", courseCount).
		Msg("Application created")

	return &dto.CreateApplicationResponse{
		Message:       "Application submitted successfully",
		ApplicationID: appID,
		CourseCount:   courseCount,
	}, nil
}

// parseIntake validates the request before anything is written
func (s *applicationServiceImpl) parseIntake(req *dto.CreateApplicationRequest) (*intake, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}

	previousRoles, err := decodePreviousRoles(req.PreviousRoles)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	availability, ok := models.ParseAvailability(req.Availability)
	if !ok {
		return nil, apperrors.NewValidationError("availability must be Part-Time or Full-Time")
	}

	submittedAt, err := helpers.ParseSubmittedAt(req.Timestamp, s.now)
	if err != nil {
		return nil, apperrors.NewValidationError("timestamp must be an RFC 3339 date-time")
	}

	credentials := make([]models.AcademicCredential, 0, len(req.AcademicCred))
	for _, c := range req.AcademicCred {
		credentials = append(credentials, models.AcademicCredential{
			Qualification: strings.TrimSpace(c.Qualification),
			Institution:   strings.TrimSpace(c.Institution),
			Year:          c.Year,
		})
	}

	return &intake{
		email:         strings.TrimSpace(req.Email),
		courseCodes:   distinctTrimmed(req.Courses),
		sessionType:   sessionTypeFromRole(req.Role),
		availability:  availability,
		previousRoles: previousRoles,
		skills:        helpers.NormalizeSkillLabels(req.Skills),
		credentials:   credentials,
		submittedAt:   submittedAt,
	}, nil
}

// decodePreviousRoles accepts a JSON array of strings. An absent field means no previous roles.
func decodePreviousRoles(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, apperrors.Validation(apperrors.ErrInvalidPreviousRoles)
	}
	var roles []string
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, apperrors.Validation(apperrors.ErrInvalidPreviousRoles)
	}
	return roles, nil
}

// sessionTypeFromRole reads the first role (array or single string); "tutor" selects tutor, anything else lab
func sessionTypeFromRole(raw json.RawMessage) models.SessionType {
	var first string
	var roles []string
	if err := json.Unmarshal(raw, &roles); err == nil {
		if len(roles) > 0 {
			first = roles[0]
		}
	} else {
		_ = json.Unmarshal(raw, &first)
	}

	if strings.EqualFold(strings.TrimSpace(first), string(models.SessionTutor)) {
		return models.SessionTutor
	}
	return models.SessionLab
}

// GetAllApplications returns every application, newest first
func (s *applicationServiceImpl) GetAllApplications(ctx context.Context) ([]*models.Application, error) {
	apps, err := s.store.FindApplications(ctx, repositories.ApplicationQuery{})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list applications")
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// QueryApplications applies the lecturer dashboard filters
func (s *applicationServiceImpl) QueryApplications(ctx context.Context, filter dto.ApplicationFilter) ([]*models.Application, error) {
	search := strings.TrimSpace(filter.GeneralSearch)
	if !validation.IsSafeSearch(search) {
		return nil, apperrors.Validation(apperrors.ErrInvalidSearch)
	}

	q := repositories.ApplicationQuery{
		GeneralSearch:  search,
		NameFragments:  helpers.SplitCSV(filter.CandidateName),
		SessionTypes:   helpers.LowerAll(helpers.SplitCSV(filter.SessionType)),
		Availabilities: helpers.LowerAll(helpers.SplitCSV(filter.Availability)),
		Skills:         helpers.NormalizeSkillLabels(helpers.SplitCSV(filter.Skills)),
	}

	apps, err := s.store.FindApplications(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Interface("filter", filter).Msg("Failed to query applications")
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	return apps, nil
}

// GetApplicationsByEmail returns the applications submitted by one candidate
func (s *applicationServiceImpl) GetApplicationsByEmail(ctx context.Context, email string) ([]*models.Application, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	apps, err := s.store.FindApplications(ctx, repositories.ApplicationQuery{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	if len(apps) == 0 {
		return nil, apperrors.NotFound(apperrors.ErrApplicationNotFound)
	}
	return apps, nil
}

func distinctTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
