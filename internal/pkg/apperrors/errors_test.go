package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationWrapsBothSentinels(t *testing.T) {
	err := fmt.Errorf("create application: %w", Validation(ErrInvalidPreviousRoles))

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(err, ErrInvalidPreviousRoles))
	assert.False(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, "invalid previousRoles format", Message(err, "fallback"))
}

func TestConflictAndNotFound(t *testing.T) {
	conflict := Conflict(ErrRankTaken)
	assert.True(t, Is(conflict, ErrConflict))
	assert.True(t, Is(conflict, ErrResourceNotFound, ErrRankTaken))

	missing := NotFound(ErrNoMatchingCourses)
	assert.True(t, errors.Is(missing, ErrResourceNotFound))
	assert.Equal(t, "no matching courses", missing.Error())
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "course code taken", Message(NewConflictError("course code taken"), "fallback"))
}
