package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/tutorhub/selection/internal/app/models"
)

// loadRelations fills users, courses, skills and credentials for apps using one batched query per relation
func (s *PostgresStore) loadRelations(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Application, len(apps))
	appIDs := make([]int64, 0, len(apps))
	userIDs := make([]int64, 0, len(apps))
	seenUsers := map[int64]bool{}
	for _, app := range apps {
		app.AppliedCourses = []models.Course{}
		app.SelectedCourses = []models.Course{}
		app.Skills = []models.Skill{}
		app.AcademicCredentials = []models.AcademicCredential{}
		if app.PreviousRoles == nil {
			app.PreviousRoles = []string{}
		}
		byID[app.ID] = app
		appIDs = append(appIDs, app.ID)
		if !seenUsers[app.UserID] {
			seenUsers[app.UserID] = true
			userIDs = append(userIDs, app.UserID)
		}
	}

	if err := s.loadUsers(ctx, apps, userIDs); err != nil {
		return err
	}
	if err := s.loadCourses(ctx, byID, appIDs, "application_applied_courses", func(a *models.Application, c models.Course) {
		a.AppliedCourses = append(a.AppliedCourses, c)
	}); err != nil {
		return fmt.Errorf("error loading applied courses: %w", err)
	}
	if err := s.loadCourses(ctx, byID, appIDs, "application_selected_courses", func(a *models.Application, c models.Course) {
		a.SelectedCourses = append(a.SelectedCourses, c)
	}); err != nil {
		return fmt.Errorf("error loading selected courses: %w", err)
	}
	if err := s.loadSkills(ctx, byID, appIDs); err != nil {
		return fmt.Errorf("error loading application skills: %w", err)
	}
	if err := s.loadCredentials(ctx, byID, appIDs); err != nil {
		return fmt.Errorf("error loading academic credentials: %w", err)
	}
	return nil
}

func (s *PostgresStore) loadUsers(ctx context.Context, apps []*models.Application, userIDs []int64) error {
	rows, err := s.query(ctx, s.sb.Select(userColumns...).From("users").Where("id = ANY(?)", userIDs))
	if err != nil {
		return fmt.Errorf("error loading applicants: %w", err)
	}
	defer rows.Close()

	users := make(map[int64]*models.User, len(userIDs))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return fmt.Errorf("error scanning applicant row: %w", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, app := range apps {
		app.User = users[app.UserID]
	}
	return nil
}

func (s *PostgresStore) loadCourses(ctx context.Context, byID map[int64]*models.Application, appIDs []int64,
	table string, add func(*models.Application, models.Course)) error {
	rows, err := s.query(ctx, s.sb.Select("j.application_id", "c.id", "c.course_code", "c.name", "c.semester", "c.description").
		From(table+" j").
		Join("courses c ON c.id = j.course_id").
		Where("j.application_id = ANY(?)", appIDs).
		OrderBy("c.course_code ASC"))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var appID int64
		var c models.Course
		if err := rows.Scan(&appID, &c.ID, &c.CourseCode, &c.Name, &c.Semester, &c.Description); err != nil {
			return err
		}
		if app, ok := byID[appID]; ok {
			add(app, c)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) loadSkills(ctx context.Context, byID map[int64]*models.Application, appIDs []int64) error {
	rows, err := s.query(ctx, s.sb.Select("aps.application_id", "sk.id", "sk.skill_name").
		From("application_skills aps").
		Join("skills sk ON sk.id = aps.skill_id").
		Where("aps.application_id = ANY(?)", appIDs).
		OrderBy("sk.skill_name ASC"))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var appID int64
		var sk models.Skill
		if err := rows.Scan(&appID, &sk.ID, &sk.SkillName); err != nil {
			return err
		}
		if app, ok := byID[appID]; ok {
			app.Skills = append(app.Skills, sk)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) loadCredentials(ctx context.Context, byID map[int64]*models.Application, appIDs []int64) error {
	rows, err := s.query(ctx, s.sb.Select("ac.application_id", "cr.id", "cr.qualification", "cr.institution", "cr.year").
		From("application_credentials ac").
		Join("academic_credentials cr ON cr.id = ac.credential_id").
		Where(squirrel.Expr("ac.application_id = ANY(?)", appIDs)).
		OrderBy("cr.year DESC", "cr.qualification ASC"))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var appID int64
		var cr models.AcademicCredential
		if err := rows.Scan(&appID, &cr.ID, &cr.Qualification, &cr.Institution, &cr.Year); err != nil {
			return err
		}
		if app, ok := byID[appID]; ok {
			app.AcademicCredentials = append(app.AcademicCredentials, cr)
		}
	}
	return rows.Err()
}
