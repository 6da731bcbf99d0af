package policy

import (
	"testing"

	"github.com/campus-hub/course-service/internal/models"
)

var (
	student    = &Actor{ID: 1, Role: models.RoleStudent}
	owner      = &Actor{ID: 2, Role: models.RoleInstructor}
	otherInstr = &Actor{ID: 3, Role: models.RoleInstructor}
)

func TestCanCreateCourse(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
		want  bool
	}{
		{name: "instructor", actor: owner, want: true},
		{name: "student", actor: student, want: false},
		{name: "anonymous", actor: nil, want: false},
		{name: "unknown role", actor: &Actor{ID: 9, Role: "admin"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreateCourse(tt.actor); got != tt.want {
				t.Errorf("CanCreateCourse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanModifyCourse(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: owner.ID}

	tests := []struct {
		name   string
		actor  *Actor
		action Action
		want   bool
	}{
		{name: "anonymous read", actor: nil, action: ActionRead, want: true},
		{name: "student read", actor: student, action: ActionRead, want: true},
		{name: "owner write", actor: owner, action: ActionWrite, want: true},
		{name: "owner delete", actor: owner, action: ActionDelete, want: true},
		{name: "non-owning instructor write", actor: otherInstr, action: ActionWrite, want: false},
		{name: "student write", actor: student, action: ActionWrite, want: false},
		{name: "anonymous write", actor: nil, action: ActionWrite, want: false},
		{name: "anonymous delete", actor: nil, action: ActionDelete, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyCourse(tt.actor, course, tt.action); got != tt.want {
				t.Errorf("CanModifyCourse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreateLesson(t *testing.T) {
	// Ownership of the target course is intentionally not part of the
	// predicate; any instructor passes.
	if !CanCreateLesson(otherInstr) {
		t.Error("CanCreateLesson() = false for instructor, want true")
	}
	if CanCreateLesson(student) {
		t.Error("CanCreateLesson() = true for student, want false")
	}
	if CanCreateLesson(nil) {
		t.Error("CanCreateLesson() = true for anonymous, want false")
	}
}

func TestCanEnroll(t *testing.T) {
	if !CanEnroll(student) {
		t.Error("CanEnroll() = false for student, want true")
	}
	if CanEnroll(owner) {
		t.Error("CanEnroll() = true for instructor, want false")
	}
	if CanEnroll(nil) {
		t.Error("CanEnroll() = true for anonymous, want false")
	}
}
