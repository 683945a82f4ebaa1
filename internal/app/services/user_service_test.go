package services

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appAuth "github.com/tutorhub/selection/internal/app/auth"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
)

func newTestUserService(store *fakeStore) UserService {
	return NewUserService(store, appAuth.NewAuthorizationService(store, nil), zerolog.New(io.Discard))
}

func TestAssignLecturerToCourses(t *testing.T) {
	store := newFakeStore()
	svc := newTestUserService(store)
	lecturer := store.addUser("Lee", "Wong", "lee@staff.rmit.edu.au")
	a := store.addCourse("COSC2758", "Full Stack Development")
	b := store.addCourse("COSC1107", "Computing Theory")

	courses, err := svc.AssignLecturerToCourses(context.Background(), lecturer.ID, &dto.AssignCoursesRequest{CourseIDs: []int64{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Len(t, store.data.lecturerCourses[lecturer.ID], 2)

	// Assignment replaces the previous set.
	_, err = svc.AssignLecturerToCourses(context.Background(), lecturer.ID, &dto.AssignCoursesRequest{CourseIDs: []int64{b.ID}})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, store.data.lecturerCourses.ids(lecturer.ID))
}

func TestAssignLecturerToCoursesRejects(t *testing.T) {
	store := newFakeStore()
	svc := newTestUserService(store)
	lecturer := store.addUser("Lee", "Wong", "lee@staff.rmit.edu.au")
	candidate := store.addUser("Sam", "Taylor", "sam@student.rmit.edu.au")
	course := store.addCourse("COSC2758", "Full Stack Development")
	ctx := context.Background()

	_, err := svc.AssignLecturerToCourses(ctx, candidate.ID, &dto.AssignCoursesRequest{CourseIDs: []int64{course.ID}})
	assert.ErrorIs(t, err, apperrors.ErrNotLecturer)

	_, err = svc.AssignLecturerToCourses(ctx, 4242, &dto.AssignCoursesRequest{CourseIDs: []int64{course.ID}})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.AssignLecturerToCourses(ctx, lecturer.ID, &dto.AssignCoursesRequest{CourseIDs: []int64{course.ID, 999}})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Empty(t, store.data.lecturerCourses[lecturer.ID], "unknown course ids leave assignments untouched")
}

func TestBlockUsers(t *testing.T) {
	store := newFakeStore()
	svc := newTestUserService(store)
	sam := store.addUser("Sam", "Taylor", "sam@student.rmit.edu.au")
	kim := store.addUser("Kim", "Nguyen", "kim@student.rmit.edu.au")
	ctx := context.Background()

	affected, err := svc.BlockUsers(ctx, &dto.BlockUsersRequest{UserIDs: []int64{sam.ID, kim.ID, 999}, Blocked: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.True(t, store.data.users[sam.ID].IsBlocked)

	affected, err = svc.BlockUsers(ctx, &dto.BlockUsersRequest{UserIDs: []int64{sam.ID, kim.ID}, Blocked: true})
	require.NoError(t, err)
	assert.Zero(t, affected, "already blocked users are not counted")

	_, err = svc.BlockUsers(ctx, &dto.BlockUsersRequest{UserIDs: []int64{}})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
