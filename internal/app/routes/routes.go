package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/controllers"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	applicationController *controllers.ApplicationController,
	courseController *controllers.CourseController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authMiddleware.JWTAuth(), authController.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	applications := authenticated.Group("/applications")
	{
		applications.POST("", authMiddleware.RoleRequired(models.RoleCandidate, models.RoleAdmin), applicationController.CreateApplication)
		applications.GET("/:email", authMiddleware.RoleRequired(models.RoleCandidate, models.RoleLecturer, models.RoleAdmin), applicationController.GetApplicationsByEmail)

		// Lecturer dashboard
		reviewers := applications.Group("")
		reviewers.Use(authMiddleware.RoleRequired(models.RoleLecturer, models.RoleAdmin))
		{
			reviewers.GET("", applicationController.GetAllApplications)
			reviewers.GET("/filtered", applicationController.GetFilteredApplications)
			reviewers.POST("/decisions", applicationController.SubmitDecisions)
			reviewers.POST("/:applicationId", applicationController.UpdateApplicationDecision)
		}
	}

	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:id", courseController.GetCourseByID)

		coursesAdminProtected := courses.Group("")
		coursesAdminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			coursesAdminProtected.POST("", courseController.CreateCourse)
			coursesAdminProtected.PUT("/:id", courseController.UpdateCourse)
			coursesAdminProtected.DELETE("/:id", courseController.DeleteCourse)
		}
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		reports := admin.Group("/reports")
		{
			reports.GET("/chosen-per-course", adminController.ChosenPerCourse)
			reports.GET("/chosen-more-than-three", adminController.ChosenForMoreThanThree)
			reports.GET("/not-chosen", adminController.NotChosen)
		}
		admin.PUT("/lecturers/:id/courses", adminController.AssignLecturerCourses)
		admin.POST("/users/block", adminController.BlockUsers)
	}
}
