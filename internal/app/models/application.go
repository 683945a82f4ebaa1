package models

import "time"

// Application is a candidate's tutoring application and the lecturer decision attached to it.
type Application struct {
	ID            int64             `json:"id" db:"id"`
	UserID        int64             `json:"userId" db:"user_id"`
	SessionType   SessionType       `json:"sessionType" db:"session_type" example:"tutor"`
	Availability  Availability      `json:"availability" db:"availability" example:"Part-Time"`
	Status        ApplicationStatus `json:"status" db:"status" example:"pending"`
	IsSelected    bool              `json:"isSelected" db:"is_selected"`
	Rank          *int              `json:"rank" db:"rank"`
	Comments      *string           `json:"comments" db:"comments"`
	Timestamp     time.Time         `json:"timestamp" db:"submitted_at"`
	PreviousRoles []string          `json:"previousRoles" db:"previous_roles"`

	// Relations (populated when needed)
	User                *User                `json:"user,omitempty"`
	AppliedCourses      []Course             `json:"courses"`
	SelectedCourses     []Course             `json:"selectedCourses"`
	Skills              []Skill              `json:"skills"`
	AcademicCredentials []AcademicCredential `json:"academicCredentials"`
}

// SelectedCourseIDs returns the ids of the lecturer-selected courses
func (a *Application) SelectedCourseIDs() []int64 {
	ids := make([]int64, 0, len(a.SelectedCourses))
	for _, c := range a.SelectedCourses {
		ids = append(ids, c.ID)
	}
	return ids
}
