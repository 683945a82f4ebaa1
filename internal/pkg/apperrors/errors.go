package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNotLecturer        = errors.New("user is not a lecturer")
)

// Course errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course with this code already exists")
	ErrNoMatchingCourses   = errors.New("no matching courses")
)

// Application errors
var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrInvalidPreviousRoles  = errors.New("invalid previousRoles format")
	ErrInvalidSearch         = errors.New("generalSearch may only contain letters, digits and spaces")
	ErrRankTaken             = errors.New("rank already assigned to another applicant")
	ErrNoCourseSelected      = errors.New("at least one course must be selected")
	ErrInvalidStatusChange   = errors.New("invalid status transition")
	ErrInconsistentSelection = errors.New("isSelected and status disagree")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Validation wraps a specific cause so it matches both the cause and ErrValidationFailed.
func Validation(cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrValidationFailed, cause),
		Message: cause.Error(),
	}
}

// NotFound wraps a specific cause so it matches both the cause and ErrResourceNotFound.
func NotFound(cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrResourceNotFound, cause),
		Message: cause.Error(),
	}
}

// Conflict wraps a specific cause so it matches both the cause and ErrConflict.
func Conflict(cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrConflict, cause),
		Message: cause.Error(),
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message returns the user-facing message carried by err, falling back to fallback.
func Message(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
