package services

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateLessonRequest = validator.LessonCreateRequest
type EnrollRequest = validator.EnrollRequest

// AuthResponse carries the issued token together with the user record.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CourseListResponse wraps a course listing.
type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int              `json:"total"`
}

// CourseProgressResponse reports a student's standing in one course.
// Per-lesson completion is not implemented: completed_lessons is always
// 0 and next_lesson always null.
type CourseProgressResponse struct {
	Progress         float64 `json:"progress"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int64   `json:"total_lessons"`
	NextLesson       *uint   `json:"next_lesson"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UploadProfilePic(ctx context.Context, actor *policy.Actor, filename string, size int64, content io.Reader) (*models.User, error)
}

type CourseService interface {
	List(ctx context.Context, actor *policy.Actor, category *string) (*CourseListResponse, error)
	GetByID(ctx context.Context, actor *policy.Actor, id uint) (*models.Course, error)
	Create(ctx context.Context, actor *policy.Actor, req *CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, actor *policy.Actor, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint) error
	UploadImage(ctx context.Context, actor *policy.Actor, id uint, filename string, size int64, content io.Reader) (*models.Course, error)

	// ListUserCourses dispatches on the actor's role: students get the
	// courses they are enrolled in annotated with their own progress,
	// instructors get the courses they own.
	ListUserCourses(ctx context.Context, actor *policy.Actor) (*CourseListResponse, error)

	// ExportRoster builds the xlsx enrollment roster for a course the
	// actor owns. Returns the workbook and a download filename.
	ExportRoster(ctx context.Context, actor *policy.Actor, id uint) (*excelize.File, string, error)
}

type LessonService interface {
	Create(ctx context.Context, actor *policy.Actor, req *CreateLessonRequest) (*models.Lesson, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, actor *policy.Actor, req *EnrollRequest) (*models.Enrollment, error)
	GetCourseProgress(ctx context.Context, actor *policy.Actor, courseID uint) (*CourseProgressResponse, error)
}

// ServiceManager wires the service instances and manages their lifecycle.
type ServiceManager interface {
	User() UserService
	Course() CourseService
	Lesson() LessonService
	Enrollment() EnrollmentService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
