package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// HandleBindError reports a request body or query that could not be bound as a 400
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(bindErrorDetail(err)))
}

func bindErrorDetail(err error) *dto.ErrorDetail {
	if fields := validation.FieldErrors(err); fields != nil {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "request validation failed").WithDetails(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fmt.Sprintf("%s has the wrong type", typeErr.Field)).
			WithField(typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}
