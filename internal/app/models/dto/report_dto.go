package dto

import "github.com/tutorhub/selection/internal/app/models"

// CandidateSummary is the public view of an applicant in admin reports
type CandidateSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
}

// CourseCandidates lists the applicants chosen for one course
type CourseCandidates struct {
	Course     models.Course      `json:"course"`
	Candidates []CandidateSummary `json:"candidates"`
}
