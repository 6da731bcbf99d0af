package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/export"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/storage"
	"github.com/campus-hub/course-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	media     *storage.MediaStore
}

func NewCourseService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	media *storage.MediaStore,
) CourseService {
	return &courseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		media:     media,
	}
}

// List returns the public catalog, optionally narrowed to one category
// (matched case-insensitively). Student viewers additionally get the
// is_enrolled flag computed against their own enrollments.
func (s *courseService) List(ctx context.Context, actor *policy.Actor, category *string) (*CourseListResponse, error) {
	courses, err := s.repo.Course().List(ctx, nil, repositories.CourseFilters{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	if err := s.annotateCourses(ctx, courses, actor); err != nil {
		return nil, err
	}

	return &CourseListResponse{Courses: courses, Total: len(courses)}, nil
}

// GetByID returns one course with its lessons. Readable by everyone,
// anonymous callers included.
func (s *courseService) GetByID(ctx context.Context, actor *policy.Actor, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithLessons(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.annotateCourses(ctx, []*models.Course{course}, actor); err != nil {
		return nil, err
	}
	return course, nil
}

// Create adds a course owned by the calling instructor. Any instructor
// id supplied in the request body is ignored; ownership always goes to
// the caller.
func (s *courseService) Create(ctx context.Context, actor *policy.Actor, req *CreateCourseRequest) (*models.Course, error) {
	if !policy.CanCreateCourse(actor) {
		return nil, NewPermissionError(actorID(actor), 0, "course", "create", "only instructors can create courses")
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		InstructorID: actor.ID,
	}

	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Course().Create(ctx, tx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", actor.ID)
	s.publishEvent(ctx, events.TypeCourseCreated, events.CourseCreatedEvent{
		CourseID:     course.ID,
		InstructorID: course.InstructorID,
		Title:        course.Title,
		Category:     course.Category,
	})

	// Reload so the instructor relation is populated for annotation.
	created, err := s.repo.Course().GetByID(ctx, nil, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created course: %w", err)
	}
	if err := s.annotateCourses(ctx, []*models.Course{created}, actor); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the non-nil fields of req to a course the actor owns.
func (s *courseService) Update(ctx context.Context, actor *policy.Actor, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if !policy.CanModifyCourse(actor, course, policy.ActionWrite) {
		return nil, NewPermissionError(actorID(actor), id, "course", "update", "only the owning instructor can update a course")
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Course().Update(ctx, tx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", course.ID)
	if err := s.annotateCourses(ctx, []*models.Course{course}, actor); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course the actor owns together with its lessons and
// enrollments.
func (s *courseService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if !policy.CanModifyCourse(actor, course, policy.ActionDelete) {
		return NewPermissionError(actorID(actor), id, "course", "delete", "only the owning instructor can delete a course")
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Course().Delete(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("Course deleted", "course_id", id, "instructor_id", course.InstructorID)
	s.publishEvent(ctx, events.TypeCourseDeleted, events.CourseDeletedEvent{
		CourseID:     id,
		InstructorID: course.InstructorID,
	})
	return nil
}

// UploadImage validates and stores a new cover image for a course the
// actor owns.
func (s *courseService) UploadImage(ctx context.Context, actor *policy.Actor, id uint, filename string, size int64, content io.Reader) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if !policy.CanModifyCourse(actor, course, policy.ActionWrite) {
		return nil, NewPermissionError(actorID(actor), id, "course", "update", "only the owning instructor can update a course")
	}

	if errs := s.validator.GetBusinessValidator().ValidateImageUpload(filename, size); len(errs) > 0 {
		return nil, errs
	}

	relPath, err := s.media.Save(storage.CourseImagePrefix, filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store course image: %w", err)
	}

	if err := s.repo.Course().UpdateImage(ctx, nil, id, relPath); err != nil {
		return nil, fmt.Errorf("failed to update course image: %w", err)
	}

	course.Image = &relPath
	if err := s.annotateCourses(ctx, []*models.Course{course}, actor); err != nil {
		return nil, err
	}
	return course, nil
}

// ListUserCourses dispatches on the actor's role. Students get the
// courses they are enrolled in, each carrying their own progress;
// instructors get the courses they teach. Any other caller is rejected.
func (s *courseService) ListUserCourses(ctx context.Context, actor *policy.Actor) (*CourseListResponse, error) {
	var (
		courses []*models.Course
		err     error
	)

	switch {
	case actor.IsStudent():
		courses, err = s.repo.Course().ListEnrolledByStudent(ctx, nil, actor.ID)
	case actor.IsInstructor():
		courses, err = s.repo.Course().ListByInstructor(ctx, nil, actor.ID)
	default:
		return nil, NewPermissionError(actorID(actor), 0, "course", "list", "authentication required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list user courses: %w", err)
	}

	if err := s.annotateCourses(ctx, courses, actor); err != nil {
		return nil, err
	}
	return &CourseListResponse{Courses: courses, Total: len(courses)}, nil
}

// ExportRoster builds the xlsx enrollment roster for a course the actor
// owns.
func (s *courseService) ExportRoster(ctx context.Context, actor *policy.Actor, id uint) (*excelize.File, string, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrCourseNotFound
		}
		return nil, "", fmt.Errorf("failed to get course: %w", err)
	}

	if !policy.CanModifyCourse(actor, course, policy.ActionWrite) {
		return nil, "", NewPermissionError(actorID(actor), id, "course", "export", "only the owning instructor can export the roster")
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, nil, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list enrollments: %w", err)
	}

	workbook, err := export.BuildRosterWorkbook(course, enrollments)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build roster: %w", err)
	}

	s.logger.Info("Roster exported", "course_id", id, "rows", len(enrollments))
	return workbook, export.RosterFilename(course), nil
}

// annotateCourses fills the computed fields on every course: enrollment
// counts, the viewer's is_enrolled flag, instructor name and image URL.
func (s *courseService) annotateCourses(ctx context.Context, courses []*models.Course, actor *policy.Actor) error {
	if len(courses) == 0 {
		return nil
	}

	var viewerStudentID *uint
	if actor.IsStudent() {
		viewerStudentID = &actor.ID
	}

	if err := s.repo.Course().AnnotateEnrollmentStats(ctx, nil, courses, viewerStudentID); err != nil {
		return fmt.Errorf("failed to annotate courses: %w", err)
	}

	for _, course := range courses {
		if course.Instructor.ID != 0 {
			course.InstructorName = course.Instructor.Username
		}
		if s.media != nil {
			course.ImageURL = s.media.URL(course.Image)
		}
	}
	return nil
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, &events.Event{Type: eventType, Data: data}); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

// actorID is safe on an anonymous (nil) actor.
func actorID(actor *policy.Actor) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}
