package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/tutorhub/selection/internal/app/auth"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/services"
	"github.com/tutorhub/selection/internal/middleware"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
)

// ApplicationController handles tutor application intake, queries and decisions
type ApplicationController struct {
	applicationService services.ApplicationService
	authz              *appAuth.AuthorizationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, authz *appAuth.AuthorizationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		authz:              authz,
		logger:             logger,
	}
}

// CreateApplication handles a candidate submission
// @Summary Submit a tutor application
// @Description Stores an application with its applied courses, skills and academic credentials in one transaction.
// @Description Unknown course codes are ignored; at least one must match.
// @Description The result is wrapped in the API envelope: applicationId and courseCount are under data,
// @Description and failures report error.message and error.details instead of a top-level error/detail pair.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=dto.CreateApplicationResponse} "Application created"
// @Failure 400 {object} dto.ErrorResponse "Invalid previousRoles, availability or timestamp"
// @Failure 403 {object} dto.ErrorResponse "Candidates may only apply for themselves"
// @Failure 404 {object} dto.ErrorResponse "Unknown candidate or no matching courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	role, _ := middleware.CurrentRole(ctx)
	if !c.authz.CanSubmitFor(middleware.CurrentEmail(ctx), role, req.Email) {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("candidates may only apply for themselves"))
		return
	}

	resp, err := c.applicationService.CreateApplication(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, resp.Message))
}

// GetAllApplications lists every application
// @Summary List applications
// @Description Returns all applications with candidate, courses, skills and credentials, newest first
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Applications"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [get]
func (c *ApplicationController) GetAllApplications(ctx *gin.Context) {
	apps, err := c.applicationService.GetAllApplications(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, ""))
}

// GetFilteredApplications runs the lecturer dashboard query
// @Summary Filter applications
// @Description All filters are optional and combined with AND; comma-separated values within one filter are ORed.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param generalSearch query string false "Free text over names, course code/name, availability and skills"
// @Param candidateName query string false "Comma-separated name fragments"
// @Param sessionType query string false "Comma-separated session types (tutor, lab)"
// @Param availability query string false "Comma-separated availabilities (full-time, part-time)"
// @Param skills query string false "Comma-separated skills"
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Matching applications"
// @Failure 400 {object} dto.ErrorResponse "Unsafe search term"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/filtered [get]
func (c *ApplicationController) GetFilteredApplications(ctx *gin.Context) {
	var filter dto.ApplicationFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	apps, err := c.applicationService.QueryApplications(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, ""))
}

// GetApplicationsByEmail lists one candidate's applications
// @Summary Applications of a candidate
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param email path string true "Candidate email"
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Candidates may only read their own applications"
// @Failure 404 {object} dto.ErrorResponse "No applications for this email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{email} [get]
func (c *ApplicationController) GetApplicationsByEmail(ctx *gin.Context) {
	email := ctx.Param("email")
	role, _ := middleware.CurrentRole(ctx)
	if role == models.RoleCandidate && !strings.EqualFold(email, middleware.CurrentEmail(ctx)) {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("candidates may only read their own applications"))
		return
	}

	apps, err := c.applicationService.GetApplicationsByEmail(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, ""))
}

// UpdateApplicationDecision applies a partial lecturer decision
// @Summary Update a lecturer decision
// @Description Absent fields are left untouched; null clears rank and comments.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Param request body dto.UpdateDecisionRequest true "Decision fields"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Updated application"
// @Failure 400 {object} dto.ErrorResponse "Wrong field types, invalid transition or no course selected"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Rank already assigned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationId} [post]
func (c *ApplicationController) UpdateApplicationDecision(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "applicationId", "Application")
	if !ok {
		return
	}

	var req dto.UpdateDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	app, err := c.applicationService.UpdateApplicationDecision(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app, "Application decision updated"))
}

// SubmitDecisions applies the dashboard bulk submission
// @Summary Submit dashboard decisions
// @Description Validates every entry first, then writes the changed applications in one transaction.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitDecisionsRequest true "Decisions"
// @Success 200 {object} dto.APIResponse{data=dto.SubmitDecisionsResponse} "Written applications"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Rank held outside the batch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/decisions [post]
func (c *ApplicationController) SubmitDecisions(ctx *gin.Context) {
	var req dto.SubmitDecisionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	updated, err := c.applicationService.SubmitDecisions(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SubmitDecisionsResponse{Updated: updated}, "Decisions submitted"))
}
