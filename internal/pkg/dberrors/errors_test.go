package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	rankErr := &pgconn.PgError{Code: "23505", ConstraintName: ConstraintRankUnique}
	wrapped := fmt.Errorf("update application: %w", rankErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, ConstraintRankUnique))
	assert.False(t, IsDuplicateConstraintError(wrapped, ConstraintCourseCodeUnique))
	assert.False(t, IsDuplicateConstraintError(errors.New("plain"), ConstraintRankUnique))

	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: ConstraintRankUnique}
	assert.False(t, IsDuplicateConstraintError(fkErr, ConstraintRankUnique))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}
