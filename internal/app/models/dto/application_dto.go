package dto

import "encoding/json"

// CredentialInput is one academic credential submitted with an application
type CredentialInput struct {
	Qualification string `json:"qualification" validate:"required,max=200"`
	Institution   string `json:"institution" validate:"required,max=200"`
	Year          int    `json:"year" validate:"required,min=1900,max=2100"`
}

// CreateApplicationRequest is the candidate submission body.
// Role and PreviousRoles stay raw so their shape can be checked explicitly.
type CreateApplicationRequest struct {
	Email         string            `json:"email" validate:"required,email"`
	Role          json.RawMessage   `json:"role" swaggertype:"array,string"`
	Courses       []string          `json:"courses"`
	PreviousRoles json.RawMessage   `json:"previousRoles" swaggertype:"array,string"`
	Availability  string            `json:"availability" validate:"required"`
	Skills        []string          `json:"skills"`
	AcademicCred  []CredentialInput `json:"academicCred" validate:"dive"`
	Timestamp     string            `json:"timestamp" example:"2025-03-01T09:00:00Z"`
}

// CreateApplicationResponse reports the stored application
type CreateApplicationResponse struct {
	Message       string `json:"message" example:"Application submitted"`
	ApplicationID int64  `json:"applicationId" example:"42"`
	CourseCount   int    `json:"courseCount" example:"1"`
}

// ApplicationFilter carries the comma-separated lecturer dashboard filters
type ApplicationFilter struct {
	GeneralSearch string `form:"generalSearch"`
	CandidateName string `form:"candidateName"`
	SessionType   string `form:"sessionType"`
	Availability  string `form:"availability"`
	Skills        string `form:"skills"`
}
