package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-hub/course-service/internal/auth"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/services"
	"github.com/campus-hub/course-service/internal/utils"
)

type HandlerManager struct {
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	lessonHandler     *LessonHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *JWTAuthMiddleware
	mediaRoot         string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
	mediaRoot string,
) *HandlerManager {
	return &HandlerManager{
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		lessonHandler:     NewLessonHandler(serviceManager.Lesson(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		authMiddleware:    NewJWTAuthMiddleware(tokens),
		mediaRoot:         mediaRoot,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Account routes
		v1.POST("/register", hm.userHandler.Register)
		v1.POST("/login", hm.userHandler.Login)
		v1.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.userHandler.Me)
		v1.POST("/me/avatar", hm.authMiddleware.AuthMiddleware(), hm.userHandler.UploadAvatar)

		// Course routes. Catalog reads take an optional token so student
		// viewers get their is_enrolled flag.
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.authMiddleware.OptionalAuthMiddleware(), hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.authMiddleware.OptionalAuthMiddleware(), hm.courseHandler.GetCourse)

			courses.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.UpdateCourse)
			courses.PATCH("/:id", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.DeleteCourse)
			courses.POST("/:id/image", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.UploadCourseImage)

			courses.GET("/usercourses", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.ListMyCourses)
			courses.GET("/:id/progress", hm.authMiddleware.AuthMiddleware(), hm.enrollmentHandler.GetCourseProgress)
			courses.GET("/:id/roster/export", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.ExportRoster)
		}

		// Lesson routes
		v1.POST("/lessons", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.lessonHandler.CreateLesson)

		// Enrollment routes
		v1.POST("/enroll", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.enrollmentHandler.Enroll)
	}

	// Uploaded media
	if hm.mediaRoot != "" {
		router.Static("/media", hm.mediaRoot)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})
}
