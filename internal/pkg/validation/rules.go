package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// CourseCodePattern is the catalog code format, e.g. COSC2758
	CourseCodePattern = `^COSC\d{4}$`

	// GeneralSearchPattern restricts free-text search to letters, digits and whitespace
	GeneralSearchPattern = `^[A-Za-z0-9\s]*$`

	// PasswordMinLength is the shortest accepted password
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseCode    *regexp.Regexp
	GeneralSearch *regexp.Regexp
}{
	CourseCode:    regexp.MustCompile(CourseCodePattern),
	GeneralSearch: regexp.MustCompile(GeneralSearchPattern),
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		return IsCourseCode(fl.Field().String())
	})
	return v
}

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	return validate
}

// Struct validates a struct using its `validate` tags
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// IsCourseCode reports whether code matches the catalog code format
func IsCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(code)
}

// IsSafeSearch reports whether a free-text search term only uses letters, digits and whitespace
func IsSafeSearch(term string) bool {
	return CompiledPatterns.GeneralSearch.MatchString(term)
}

// FieldErrors flattens validator errors into field -> message pairs.
// Errors that are not validator errors yield nil.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = formatFieldError(fe)
	}
	return out
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "coursecode":
		return e.Field() + " must look like COSC1234"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
