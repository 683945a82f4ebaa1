package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
)

func TestCourseLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := NewCourseService(store)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &dto.CourseRequest{CourseCode: " cosc2758 ", Name: "Full Stack Development", Semester: "1"})
	require.NoError(t, err)
	assert.Equal(t, "COSC2758", course.CourseCode)
	assert.NotZero(t, course.ID)

	_, err = svc.CreateCourse(ctx, &dto.CourseRequest{CourseCode: "COSC2758", Name: "Duplicate", Semester: "2"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "course with code COSC2758 already exists", apperrors.Message(err, ""))

	desc := "Theory of computation"
	updated, err := svc.UpdateCourse(ctx, course.ID, &dto.CourseRequest{CourseCode: "COSC1107", Name: "Computing Theory", Semester: "2", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "COSC1107", updated.CourseCode)

	got, err := svc.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Computing Theory", got.Name)
	assert.Equal(t, desc, *got.Description)

	all, err := svc.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))
	_, err = svc.GetCourseByID(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, svc.DeleteCourse(ctx, course.ID), apperrors.ErrResourceNotFound)
}

func TestCourseValidation(t *testing.T) {
	svc := NewCourseService(newFakeStore())

	for name, req := range map[string]*dto.CourseRequest{
		"bad code":     {CourseCode: "MATH1001", Name: "Calculus", Semester: "1"},
		"short code":   {CourseCode: "COSC12", Name: "Short", Semester: "1"},
		"missing name": {CourseCode: "COSC2758", Semester: "1"},
		"missing body": nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateCourse(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestUpdateCourseConflictAndMissing(t *testing.T) {
	store := newFakeStore()
	svc := NewCourseService(store)
	a := store.addCourse("COSC2758", "Full Stack Development")
	store.addCourse("COSC1107", "Computing Theory")

	_, err := svc.UpdateCourse(context.Background(), a.ID, &dto.CourseRequest{CourseCode: "COSC1107", Name: "Clash", Semester: "1"})
	assert.ErrorIs(t, err, apperrors.ErrCourseAlreadyExists)

	_, err = svc.UpdateCourse(context.Background(), 999, &dto.CourseRequest{CourseCode: "COSC9999", Name: "Ghost", Semester: "1"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
