// Package policy holds the authorization predicates consulted before
// every mutating operation. Predicates are pure: they never touch the
// store and never return anything but a yes/no decision, so a false
// answer always maps to a forbidden rejection with no partial state.
package policy

import (
	"github.com/campus-hub/course-service/internal/models"
)

// Actor is the identity making a request. A nil *Actor is an anonymous
// caller: it may read the catalog and nothing else. The actor is threaded
// explicitly through every service call instead of living in ambient
// request state.
type Actor struct {
	ID   uint
	Role models.UserRole
}

// Action discriminates read access from mutation for resources whose
// read side is public.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// IsStudent reports whether the actor is an authenticated student.
func (a *Actor) IsStudent() bool {
	return a != nil && a.Role == models.RoleStudent
}

// IsInstructor reports whether the actor is an authenticated instructor.
func (a *Actor) IsInstructor() bool {
	return a != nil && a.Role == models.RoleInstructor
}

// CanCreateCourse allows course creation for instructors only.
func CanCreateCourse(actor *Actor) bool {
	return actor.IsInstructor()
}

// CanModifyCourse gates access to an existing course. Reads are open to
// everyone, anonymous callers included; writes and deletes require the
// owning instructor.
func CanModifyCourse(actor *Actor, course *models.Course, action Action) bool {
	if action == ActionRead {
		return true
	}
	return actor.IsInstructor() && course != nil && actor.ID == course.InstructorID
}

// CanCreateLesson allows lesson creation for instructors.
//
// Note: course ownership is deliberately not checked here. Any
// instructor may attach a lesson to any course; tightening this would
// be a semantic change.
func CanCreateLesson(actor *Actor) bool {
	return actor.IsInstructor()
}

// CanEnroll allows enrollment for students only.
func CanEnroll(actor *Actor) bool {
	return actor.IsStudent()
}
