package dto

// CourseRequest is used to create or edit a catalog course
type CourseRequest struct {
	CourseCode  string  `json:"courseCode" validate:"required,coursecode" example:"COSC2758"`
	Name        string  `json:"name" validate:"required,max=200"`
	Semester    string  `json:"semester" validate:"required,max=20"`
	Description *string `json:"description"`
}

// AssignCoursesRequest replaces the set of courses a lecturer is assigned to
type AssignCoursesRequest struct {
	CourseIDs []int64 `json:"courseIds" validate:"required,dive,min=1"`
}

// BlockUsersRequest blocks or unblocks a set of users
type BlockUsersRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,min=1"`
	Blocked bool    `json:"blocked"`
}

// BlockUsersResponse reports how many users changed
type BlockUsersResponse struct {
	Affected int64 `json:"affected"`
}
