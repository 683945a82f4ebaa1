package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleCandidate RoleType = "candidate"
	RoleLecturer  RoleType = "lecturer"
	RoleAdmin     RoleType = "admin"
)

// RoleForEmail derives the role from the email domain: @student.* for candidates, @staff.* for lecturers.
// Unknown domains yield an empty role.
func RoleForEmail(email string) RoleType {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	switch {
	case strings.HasPrefix(domain, "student."):
		return RoleCandidate
	case strings.HasPrefix(domain, "staff."):
		return RoleLecturer
	default:
		return ""
	}
}

// SessionType is the kind of teaching session an application is for
type SessionType string

const (
	SessionTutor SessionType = "tutor"
	SessionLab   SessionType = "lab"
)

// Availability is the candidate's declared workload
type Availability string

const (
	AvailabilityPartTime Availability = "Part-Time"
	AvailabilityFullTime Availability = "Full-Time"
)

// ParseAvailability matches value case-insensitively against the known availabilities.
func ParseAvailability(value string) (Availability, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case strings.ToLower(string(AvailabilityPartTime)):
		return AvailabilityPartTime, true
	case strings.ToLower(string(AvailabilityFullTime)):
		return AvailabilityFullTime, true
	default:
		return "", false
	}
}

// ApplicationStatus is the lecturer decision state of an application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseStatus matches value case-insensitively against the known statuses.
func ParseStatus(value string) (ApplicationStatus, bool) {
	switch s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRejected},
}

// CanTransition reports whether an application may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionFromDashboard extends CanTransition with re-selecting a rejected application,
// which the review dashboard does when a lecturer checks it again.
func CanTransitionFromDashboard(from, to ApplicationStatus) bool {
	return CanTransition(from, to) || (from == StatusRejected && to == StatusApproved)
}
