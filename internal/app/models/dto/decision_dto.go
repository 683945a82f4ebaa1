package dto

import (
	"encoding/json"

	"github.com/tutorhub/selection/internal/app/models"
)

// UpdateDecisionRequest is a partial lecturer decision. Absent fields are left untouched;
// raw fields are type-checked by the service so wrong shapes surface as validation errors.
// A null selectedCourseIds is treated as absent; send [] to clear the selection.
type UpdateDecisionRequest struct {
	Rank              json.RawMessage `json:"rank,omitempty" swaggertype:"integer"`
	Comments          json.RawMessage `json:"comments,omitempty" swaggertype:"string"`
	SelectedCourseIDs json.RawMessage `json:"selectedCourseIds,omitempty" swaggertype:"array,integer"`
	Status            *string         `json:"status,omitempty" example:"approved"`
	IsSelected        *bool           `json:"isSelected,omitempty"`
}

// DecisionEntry is one row of the dashboard bulk submit. A missing selectedCourseIds keeps the stored selection.
type DecisionEntry struct {
	ApplicationID     int64   `json:"applicationId" validate:"required,min=1"`
	Checked           bool    `json:"checked"`
	Rank              *int    `json:"rank" validate:"omitempty,min=0"`
	Comments          *string `json:"comments"`
	SelectedCourseIDs []int64 `json:"selectedCourseIds"`
}

// SubmitDecisionsRequest carries every application currently in the lecturer's view
type SubmitDecisionsRequest struct {
	Decisions []DecisionEntry `json:"decisions" validate:"required,min=1,dive"`
}

// SubmitDecisionsResponse lists the applications that were written
type SubmitDecisionsResponse struct {
	Updated []*models.Application `json:"updated"`
}
