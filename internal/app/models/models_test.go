package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForEmail(t *testing.T) {
	assert.Equal(t, RoleCandidate, RoleForEmail("sam@student.rmit.edu.au"))
	assert.Equal(t, RoleLecturer, RoleForEmail("lee@Staff.rmit.edu.au"))
	assert.Equal(t, RoleType(""), RoleForEmail("root@example.com"))
	assert.Equal(t, RoleType(""), RoleForEmail("no-at-sign"))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionFromDashboard(t *testing.T) {
	assert.True(t, CanTransitionFromDashboard(StatusRejected, StatusApproved))
	assert.True(t, CanTransitionFromDashboard(StatusPending, StatusApproved))
	assert.False(t, CanTransitionFromDashboard(StatusRejected, StatusPending))
	assert.False(t, CanTransitionFromDashboard(StatusApproved, StatusPending))
}

func TestParseAvailabilityAndStatus(t *testing.T) {
	a, ok := ParseAvailability("full-time")
	assert.True(t, ok)
	assert.Equal(t, AvailabilityFullTime, a)

	_, ok = ParseAvailability("weekends")
	assert.False(t, ok)

	s, ok := ParseStatus("Approved")
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, s)

	_, ok = ParseStatus("maybe")
	assert.False(t, ok)
}
