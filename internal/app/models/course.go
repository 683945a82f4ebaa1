package models

// Course is a catalog entry identified by a unique COSC code.
type Course struct {
	ID          int64   `json:"id" db:"id"`
	CourseCode  string  `json:"courseCode" db:"course_code" example:"COSC2758"`
	Name        string  `json:"name" db:"name" example:"Full Stack Development"`
	Semester    string  `json:"semester" db:"semester" example:"1"`
	Description *string `json:"description,omitempty" db:"description"` // Nullable
}
