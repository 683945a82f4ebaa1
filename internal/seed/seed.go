package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/tutorhub/selection/internal/app/models"
	appRepos "github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/config"
	"github.com/tutorhub/selection/internal/pkg/auth"
)

// defaultCourses is the starter catalog created on an empty database
var defaultCourses = []appModels.Course{
	{CourseCode: "COSC2758", Name: "Full Stack Development", Semester: "1"},
	{CourseCode: "COSC1107", Name: "Computing Theory", Semester: "1"},
	{CourseCode: "COSC2123", Name: "Algorithms and Analysis", Semester: "2"},
	{CourseCode: "COSC2299", Name: "Software Engineering: Process and Tools", Semester: "2"},
}

// CreateDefaultData creates the starter catalog and, when configured, the administrator accounts.
// Existing rows are left alone so it is safe to run on every start.
func CreateDefaultData(ctx context.Context, store appRepos.Store, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (courses/admins)...")
	var finalErr error // To collect potential errors without stopping the process

	for i := range defaultCourses {
		course := defaultCourses[i]
		id, err := store.CreateCourse(ctx, &course)
		switch {
		case errors.Is(err, appRepos.ErrCourseCodeTaken):
			lgr.Debug().Str("courseCode", course.CourseCode).Msg("Course already exists, skipping")
		case err != nil:
			lgr.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		default:
			lgr.Info().Int64("courseID", id).Str("courseCode", course.CourseCode).Msg("Default course created")
		}
	}

	if !cfg.Auth.SeedAdmin {
		return finalErr
	}

	hash, err := auth.HashPassword(cfg.Auth.SeedPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	for _, email := range cfg.Auth.AdminEmails {
		if _, err := store.GetUserByEmail(ctx, email); err == nil {
			lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
			continue
		} else if !errors.Is(err, appRepos.ErrNotFound) {
			lgr.Error().Err(err).Str("email", email).Msg("Error checking if admin user exists")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		admin := &appModels.User{
			FirstName:     "System",
			LastName:      "Administrator",
			Username:      strings.SplitN(email, "@", 2)[0],
			Email:         email,
			Password:      hash,
			DateOfJoining: time.Now().UTC(),
		}
		adminID, err := store.CreateUser(ctx, admin)
		if err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("adminID", adminID).Str("email", email).Msg("Default admin user created successfully")
	}

	return finalErr
}
