package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/tutorhub/selection/internal/app/models"
)

// CourseSelection is a course with the users chosen for it
type CourseSelection struct {
	Course models.Course
	Users  []models.User
}

// ReportRepository serves the admin selection reports
type ReportRepository interface {
	ChosenPerCourse(ctx context.Context) ([]CourseSelection, error)
	UsersChosenForMoreThan(ctx context.Context, courses int) ([]models.User, error)
	UsersNotChosen(ctx context.Context) ([]models.User, error)
}

// ChosenPerCourse lists every course with the distinct applicants whose application selected it
func (s *PostgresStore) ChosenPerCourse(ctx context.Context) ([]CourseSelection, error) {
	rows, err := s.query(ctx, s.sb.Select(
		"c.id", "c.course_code", "c.name", "c.semester", "c.description",
		"u.id", "u.first_name", "u.last_name", "u.email").
		Distinct().
		From("courses c").
		LeftJoin("application_selected_courses sc ON sc.course_id = c.id").
		LeftJoin("applications a ON a.id = sc.application_id").
		LeftJoin("users u ON u.id = a.user_id").
		OrderBy("c.course_code ASC", "u.last_name ASC", "u.first_name ASC", "u.id ASC"))
	if err != nil {
		return nil, fmt.Errorf("error querying chosen candidates: %w", err)
	}
	defer rows.Close()

	result := []CourseSelection{}
	for rows.Next() {
		var c models.Course
		var userID *int64
		var first, last, email *string
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.Name, &c.Semester, &c.Description, &userID, &first, &last, &email); err != nil {
			return nil, fmt.Errorf("error scanning chosen candidate row: %w", err)
		}
		if len(result) == 0 || result[len(result)-1].Course.ID != c.ID {
			result = append(result, CourseSelection{Course: c, Users: []models.User{}})
		}
		if userID != nil {
			current := &result[len(result)-1]
			current.Users = append(current.Users, models.User{ID: *userID, FirstName: *first, LastName: *last, Email: *email})
		}
	}
	return result, rows.Err()
}

// UsersChosenForMoreThan lists users with an application selected for more than n courses
func (s *PostgresStore) UsersChosenForMoreThan(ctx context.Context, n int) ([]models.User, error) {
	return s.listReportUsers(ctx, squirrel.Expr(
		"EXISTS (SELECT 1 FROM applications a JOIN application_selected_courses sc ON sc.application_id = a.id "+
			"WHERE a.user_id = u.id GROUP BY a.id HAVING COUNT(*) > ?)", n))
}

// UsersNotChosen lists applicants none of whose applications has a selected course
func (s *PostgresStore) UsersNotChosen(ctx context.Context) ([]models.User, error) {
	return s.listReportUsers(ctx, squirrel.And{
		squirrel.Expr("EXISTS (SELECT 1 FROM applications a WHERE a.user_id = u.id)"),
		squirrel.Expr("NOT EXISTS (SELECT 1 FROM applications a JOIN application_selected_courses sc " +
			"ON sc.application_id = a.id WHERE a.user_id = u.id)"),
	})
}

func (s *PostgresStore) listReportUsers(ctx context.Context, pred squirrel.Sqlizer) ([]models.User, error) {
	rows, err := s.query(ctx, s.sb.Select("u.id", "u.first_name", "u.last_name", "u.email").
		From("users u").
		Where(pred).
		OrderBy("u.last_name ASC", "u.first_name ASC", "u.id ASC"))
	if err != nil {
		return nil, fmt.Errorf("error querying report users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, fmt.Errorf("error scanning report user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
