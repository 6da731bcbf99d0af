package validator

import (
	"github.com/campus-hub/course-service/internal/models"
)

// RegisterRequest represents the request structure for user registration
type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=150"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	FullName string          `json:"full_name" validate:"omitempty,max=200"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// LoginRequest represents the request structure for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CourseCreateRequest represents the request structure for creating courses.
// Instructor is accepted on the wire but never honored: ownership is
// forced to the caller.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Category    string `json:"category" validate:"required,min=1,max=100"`
	Instructor  *uint  `json:"instructor"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
}

// LessonCreateRequest represents the request structure for creating lessons
type LessonCreateRequest struct {
	Title       string             `json:"title" validate:"required,min=1,max=200"`
	ContentType models.ContentType `json:"content_type" validate:"required,content_type"`
	ContentURL  string             `json:"content_url" validate:"required"`
	CourseID    uint               `json:"course" validate:"required"`
}

// EnrollRequest represents the request structure for enrolling in a course
type EnrollRequest struct {
	CourseID uint `json:"course" validate:"required"`
}
