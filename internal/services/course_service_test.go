package services

import (
	"errors"
	"testing"

	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
)

func TestCourseService_CreateForcesOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	instructor := env.createUser(t, "teacher", models.RoleInstructor)
	other := env.createUser(t, "other-teacher", models.RoleInstructor)

	// A supplied instructor id is ignored; ownership goes to the caller.
	otherID := other.ID
	course, err := svc.Create(testCtx(), actorFor(instructor), &CreateCourseRequest{
		Title:      "Go Basics",
		Category:   "programming",
		Instructor: &otherID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if course.InstructorID != instructor.ID {
		t.Errorf("InstructorID = %d, want caller %d", course.InstructorID, instructor.ID)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeCourseCreated {
		t.Errorf("published events = %v, want one course.created", published)
	}
}

func TestCourseService_CreateRejectsStudent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	student := env.createUser(t, "student", models.RoleStudent)

	_, err := svc.Create(testCtx(), actorFor(student), &CreateCourseRequest{
		Title:    "Go Basics",
		Category: "programming",
	})

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Create = %v, want PermissionError", err)
	}
}

func TestCourseService_CreateRejectsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.Course().Create(testCtx(), nil, &CreateCourseRequest{
		Title:    "Go Basics",
		Category: "programming",
	})

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Create = %v, want PermissionError", err)
	}
}

func TestCourseService_UpdateOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	intruder := env.createUser(t, "intruder", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	newTitle := "Go Basics, 2nd edition"

	_, err := svc.Update(testCtx(), actorFor(intruder), course.ID, &UpdateCourseRequest{Title: &newTitle})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Update by non-owner = %v, want PermissionError", err)
	}

	updated, err := svc.Update(testCtx(), actorFor(owner), course.ID, &UpdateCourseRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update by owner: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("Title = %q, want %q", updated.Title, newTitle)
	}
	// Untouched fields survive a partial update.
	if updated.Category != "programming" {
		t.Errorf("Category = %q, want unchanged", updated.Category)
	}
}

func TestCourseService_UpdateNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)

	title := "x"
	_, err := env.manager.Course().Update(testCtx(), actorFor(owner), 999, &UpdateCourseRequest{Title: &title})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Update = %v, want ErrCourseNotFound", err)
	}
}

func TestCourseService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")
	ownerID := owner.ID
	env.createLesson(t, course.ID, &ownerID, "Intro")
	env.createEnrollment(t, student.ID, course.ID, 10)

	if err := svc.Delete(testCtx(), actorFor(owner), course.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var lessonCount, enrollmentCount int64
	env.db.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
	env.db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount)
	if lessonCount != 0 || enrollmentCount != 0 {
		t.Errorf("leftovers after delete: %d lessons, %d enrollments", lessonCount, enrollmentCount)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeCourseDeleted {
		t.Errorf("published events = %v, want one course.deleted", published)
	}
}

func TestCourseService_DeleteNonOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)
	intruder := env.createUser(t, "intruder", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	err := env.manager.Course().Delete(testCtx(), actorFor(intruder), course.ID)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Delete = %v, want PermissionError", err)
	}
}

func TestCourseService_ListCategoryCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	env.createCourse(t, owner.ID, "Go Basics", "Programming")
	env.createCourse(t, owner.ID, "Watercolors", "art")

	category := "pRoGrAmMiNg"
	resp, err := svc.List(testCtx(), nil, &category)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 || resp.Courses[0].Title != "Go Basics" {
		t.Errorf("List(%q) = %+v, want only Go Basics", category, resp)
	}
}

func TestCourseService_ListAnnotatesStudentViewer(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	enrolled := env.createCourse(t, owner.ID, "Go Basics", "programming")
	env.createCourse(t, owner.ID, "Watercolors", "art")
	env.createEnrollment(t, student.ID, enrolled.ID, 0)

	resp, err := svc.List(testCtx(), actorFor(student), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}
	for _, course := range resp.Courses {
		wantEnrolled := course.ID == enrolled.ID
		if course.IsEnrolled != wantEnrolled {
			t.Errorf("course %d IsEnrolled = %v, want %v", course.ID, course.IsEnrolled, wantEnrolled)
		}
		if course.InstructorName != "owner" {
			t.Errorf("course %d InstructorName = %q, want owner", course.ID, course.InstructorName)
		}
	}

	// Anonymous viewers never see is_enrolled.
	resp, err = svc.List(testCtx(), nil, nil)
	if err != nil {
		t.Fatalf("List anonymous: %v", err)
	}
	for _, course := range resp.Courses {
		if course.IsEnrolled {
			t.Errorf("course %d IsEnrolled = true for anonymous viewer", course.ID)
		}
	}
}

func TestCourseService_GetByIDIncludesLessons(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")
	ownerID := owner.ID
	env.createLesson(t, course.ID, &ownerID, "Intro")
	env.createLesson(t, course.ID, &ownerID, "Types")

	got, err := env.manager.Course().GetByID(testCtx(), nil, course.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Lessons) != 2 {
		t.Errorf("len(Lessons) = %d, want 2", len(got.Lessons))
	}
}

func TestCourseService_ListUserCoursesDispatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")
	env.createCourse(t, owner.ID, "Watercolors", "art")
	env.createEnrollment(t, student.ID, course.ID, 42.5)

	// Student: enrolled courses with own progress.
	resp, err := svc.ListUserCourses(testCtx(), actorFor(student))
	if err != nil {
		t.Fatalf("ListUserCourses student: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("student Total = %d, want 1", resp.Total)
	}
	if resp.Courses[0].Progress == nil || *resp.Courses[0].Progress != 42.5 {
		t.Errorf("Progress = %v, want 42.5", resp.Courses[0].Progress)
	}

	// Instructor: owned courses.
	resp, err = svc.ListUserCourses(testCtx(), actorFor(owner))
	if err != nil {
		t.Fatalf("ListUserCourses instructor: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("instructor Total = %d, want 2", resp.Total)
	}

	// Anonymous: rejected.
	_, err = svc.ListUserCourses(testCtx(), nil)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("ListUserCourses anonymous = %v, want PermissionError", err)
	}
}

func TestCourseService_ExportRoster(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	student := env.createUser(t, "student", models.RoleStudent)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")
	env.createEnrollment(t, student.ID, course.ID, 55)

	workbook, filename, err := svc.ExportRoster(testCtx(), actorFor(owner), course.ID)
	if err != nil {
		t.Fatalf("ExportRoster: %v", err)
	}
	defer workbook.Close()

	if filename == "" {
		t.Error("expected a download filename")
	}
	got, err := workbook.GetCellValue("Roster", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "student" {
		t.Errorf("A2 = %q, want student", got)
	}

	// Non-owner instructors cannot export.
	intruder := env.createUser(t, "intruder", models.RoleInstructor)
	_, _, err = svc.ExportRoster(testCtx(), actorFor(intruder), course.ID)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("ExportRoster by non-owner = %v, want PermissionError", err)
	}
}

func TestCourseService_UploadImageOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Course()
	owner := env.createUser(t, "owner", models.RoleInstructor)
	course := env.createCourse(t, owner.ID, "Go Basics", "programming")

	_, err := svc.UploadImage(testCtx(), &policy.Actor{ID: owner.ID + 100, Role: models.RoleInstructor}, course.ID, "cover.png", 100, nil)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("UploadImage by non-owner = %v, want PermissionError", err)
	}
}
