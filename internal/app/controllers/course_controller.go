package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/services"
	"github.com/tutorhub/selection/internal/middleware"
)

// CourseController handles course catalog operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// CreateCourse handles course creation
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course, "Course created successfully"))
}

// GetAllCourses lists the catalog
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAllCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses, ""))
}

// GetCourseByID retrieves a course by ID
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, ""))
}

// UpdateCourse edits a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.CourseRequest true "Course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Course updated successfully"))
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course deleted successfully"))
}
