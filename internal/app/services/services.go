// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - ApplicationService: candidate intake, filtered queries and lecturer decisions
//   - CourseService: catalog maintenance
//   - UserService: lecturer staffing and user blocking
//   - ReportService: admin selection reports
//   - AuthService: registration and login
package services

import (
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// validationFailure converts validator output into a ValidationError carrying per-field details
func validationFailure(err error) error {
	fields := validation.FieldErrors(err)
	if fields == nil {
		return apperrors.NewValidationError(err.Error())
	}

	details := make(map[string]interface{}, len(fields))
	for field, msg := range fields {
		details[field] = msg
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "request validation failed").WithDetails(details)
}

// isClientError reports errors caused by the request rather than the server
func isClientError(err error) bool {
	return apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrResourceNotFound,
		apperrors.ErrConflict,
		apperrors.ErrPermissionDenied,
		apperrors.ErrInvalidCredentials,
		apperrors.ErrAccountDisabled,
	)
}
