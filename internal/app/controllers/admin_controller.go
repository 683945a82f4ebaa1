package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/services"
	"github.com/tutorhub/selection/internal/middleware"
)

// AdminController serves selection reports, lecturer staffing and user blocking
type AdminController struct {
	reportService services.ReportService
	userService   services.UserService
}

// NewAdminController creates a new AdminController
func NewAdminController(reportService services.ReportService, userService services.UserService) *AdminController {
	return &AdminController{
		reportService: reportService,
		userService:   userService,
	}
}

// ChosenPerCourse reports the chosen candidates of every course
// @Summary Candidates chosen per course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseCandidates} "Report"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /admin/reports/chosen-per-course [get]
func (c *AdminController) ChosenPerCourse(ctx *gin.Context) {
	report, err := c.reportService.CandidatesChosenPerCourse(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

// ChosenForMoreThanThree reports candidates selected for more than three courses
// @Summary Candidates chosen for more than three courses
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CandidateSummary} "Report"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /admin/reports/chosen-more-than-three [get]
func (c *AdminController) ChosenForMoreThanThree(ctx *gin.Context) {
	report, err := c.reportService.CandidatesChosenForMoreThanThree(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

// NotChosen reports applicants with no selected course
// @Summary Candidates not chosen
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CandidateSummary} "Report"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /admin/reports/not-chosen [get]
func (c *AdminController) NotChosen(ctx *gin.Context) {
	report, err := c.reportService.CandidatesNotChosen(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

// AssignLecturerCourses replaces a lecturer's course assignments
// @Summary Assign a lecturer to courses
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer user ID"
// @Param request body dto.AssignCoursesRequest true "Course IDs"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Assigned courses"
// @Failure 400 {object} dto.ErrorResponse "User is not a lecturer"
// @Failure 404 {object} dto.ErrorResponse "Unknown user or course"
// @Router /admin/lecturers/{id}/courses [put]
func (c *AdminController) AssignLecturerCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Lecturer")
	if !ok {
		return
	}

	var req dto.AssignCoursesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	courses, err := c.userService.AssignLecturerToCourses(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses, "Lecturer courses assigned"))
}

// BlockUsers blocks or unblocks users
// @Summary Block or unblock users
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BlockUsersRequest true "Users"
// @Success 200 {object} dto.APIResponse{data=dto.BlockUsersResponse} "Affected users"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /admin/users/block [post]
func (c *AdminController) BlockUsers(ctx *gin.Context) {
	var req dto.BlockUsersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	affected, err := c.userService.BlockUsers(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.BlockUsersResponse{Affected: affected}, ""))
}
