package events

import (
	"time"
)

// Event types published by the service. Consumers (notification and
// analytics services) key off the type string.
const (
	TypeUserRegistered    = "user.registered"
	TypeCourseCreated     = "course.created"
	TypeCourseDeleted     = "course.deleted"
	TypeEnrollmentCreated = "enrollment.created"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// UserRegisteredEvent is emitted after a successful registration.
type UserRegisteredEvent struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CourseCreatedEvent is emitted after a course is created.
type CourseCreatedEvent struct {
	CourseID     uint   `json:"course_id"`
	InstructorID uint   `json:"instructor_id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
}

// CourseDeletedEvent is emitted after a course (and its lessons and
// enrollments) is removed.
type CourseDeletedEvent struct {
	CourseID     uint `json:"course_id"`
	InstructorID uint `json:"instructor_id"`
}

// EnrollmentCreatedEvent is emitted after a student enrolls.
type EnrollmentCreatedEvent struct {
	EnrollmentID uint `json:"enrollment_id"`
	StudentID    uint `json:"student_id"`
	CourseID     uint `json:"course_id"`
}
