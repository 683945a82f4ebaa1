package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleCourse struct {
	Code  string `json:"courseCode" validate:"required,coursecode"`
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestIsCourseCode(t *testing.T) {
	assert.True(t, IsCourseCode("COSC2758"))
	assert.False(t, IsCourseCode("cosc2758"))
	assert.False(t, IsCourseCode("COSC275"))
	assert.False(t, IsCourseCode("COSC27589"))
}

func TestIsSafeSearch(t *testing.T) {
	assert.True(t, IsSafeSearch("Sam Smith 2023"))
	assert.True(t, IsSafeSearch(""))
	assert.False(t, IsSafeSearch("sam'; drop table users"))
	assert.False(t, IsSafeSearch("50%"))
}

func TestStructAndFieldErrors(t *testing.T) {
	require.NoError(t, Struct(sampleCourse{Code: "COSC1111", Name: "Algos"}))

	err := Struct(sampleCourse{Code: "MATH1111", Name: "", Email: "nope"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "courseCode must look like COSC1234", fields["courseCode"])
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "email must be a valid email address", fields["email"])

	assert.Nil(t, FieldErrors(assert.AnError))
}
