package services

import (
	"errors"
	"testing"

	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Enrollment()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	enrollment, err := svc.Enroll(testCtx(), actorFor(student), &EnrollRequest{CourseID: course.ID})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if enrollment.StudentID != student.ID {
		t.Errorf("StudentID = %d, want caller %d", enrollment.StudentID, student.ID)
	}
	if enrollment.Progress != 0 {
		t.Errorf("Progress = %v, want 0", enrollment.Progress)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeEnrollmentCreated {
		t.Errorf("published events = %v, want one enrollment.created", published)
	}
}

func TestEnrollmentService_EnrollTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Enrollment()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	if _, err := svc.Enroll(testCtx(), actorFor(student), &EnrollRequest{CourseID: course.ID}); err != nil {
		t.Fatalf("first Enroll: %v", err)
	}

	_, err := svc.Enroll(testCtx(), actorFor(student), &EnrollRequest{CourseID: course.ID})
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second Enroll = %v, want ErrAlreadyEnrolled", err)
	}

	var count int64
	env.db.Model(&models.Enrollment{}).Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	if count != 1 {
		t.Errorf("enrollment rows = %d, want exactly 1", count)
	}
}

func TestEnrollmentService_EnrollInstructorForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	_, err := env.manager.Enrollment().Enroll(testCtx(), actorFor(owner), &EnrollRequest{CourseID: course.ID})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Enroll = %v, want PermissionError", err)
	}
}

func TestEnrollmentService_EnrollCourseMissing(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "student", models.RoleStudent)

	_, err := env.manager.Enrollment().Enroll(testCtx(), actorFor(student), &EnrollRequest{CourseID: 999})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Enroll = %v, want ErrCourseNotFound", err)
	}
}

func TestEnrollmentService_GetCourseProgress(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Enrollment()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")
	ownerID := owner.ID
	env.createLesson(t, course.ID, &ownerID, "Intro")
	env.createLesson(t, course.ID, &ownerID, "Types")
	env.createEnrollment(t, student.ID, course.ID, 37.5)

	progress, err := svc.GetCourseProgress(testCtx(), actorFor(student), course.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress: %v", err)
	}
	if progress.Progress != 37.5 {
		t.Errorf("Progress = %v, want 37.5", progress.Progress)
	}
	if progress.TotalLessons != 2 {
		t.Errorf("TotalLessons = %d, want 2", progress.TotalLessons)
	}
	if progress.CompletedLessons != 0 || progress.NextLesson != nil {
		t.Errorf("per-lesson tracking should be empty, got %+v", progress)
	}
}

func TestEnrollmentService_GetCourseProgressNotEnrolled(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	_, err := env.manager.Enrollment().GetCourseProgress(testCtx(), actorFor(student), course.ID)
	if !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("GetCourseProgress = %v, want ErrEnrollmentNotFound", err)
	}
}

func TestEnrollmentService_GetCourseProgressInstructorForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	_, err := env.manager.Enrollment().GetCourseProgress(testCtx(), actorFor(owner), course.ID)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("GetCourseProgress = %v, want PermissionError", err)
	}
}
