package services

import (
	"errors"
	"fmt"

	"github.com/campus-hub/course-service/internal/validator"
)

// ValidationErrors re-exports the validator error slice so handlers can
// match it with errors.As.
type ValidationErrors = validator.ValidationErrors

// Sentinel errors. Handlers map these to HTTP statuses; services never
// wrap one inside another kind.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// Conflicts (uniqueness violations)
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrUsernameTaken   = errors.New("username is already taken")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PermissionError is returned whenever a policy predicate evaluates to
// false. It is the only error kind authorization failures produce.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsConflictError reports whether err is one of the uniqueness-conflict
// sentinels.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUsernameTaken)
}

// IsNotFoundError reports whether err is one of the not-found sentinels.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}
