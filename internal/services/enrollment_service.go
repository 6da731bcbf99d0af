package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Enroll enrolls the calling student in a course. The student reference
// is always the caller; there is no enrolling on someone's behalf. A
// duplicate enrollment surfaces as a conflict from the unique index, so
// two concurrent enrolls resolve to exactly one row.
func (s *enrollmentService) Enroll(ctx context.Context, actor *policy.Actor, req *EnrollRequest) (*models.Enrollment, error) {
	if !policy.CanEnroll(actor) {
		return nil, NewPermissionError(actorID(actor), req.CourseID, "enrollment", "create", "only students can enroll")
	}

	if errs := s.validator.GetBusinessValidator().ValidateEnroll(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollment := &models.Enrollment{
		StudentID: actor.ID,
		CourseID:  req.CourseID,
		Progress:  0,
	}

	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Enrollment().Create(ctx, tx, enrollment)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("Student enrolled", "enrollment_id", enrollment.ID, "student_id", actor.ID, "course_id", req.CourseID)
	s.publishEvent(ctx, events.TypeEnrollmentCreated, events.EnrollmentCreatedEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
	})
	return enrollment, nil
}

// GetCourseProgress reports the calling student's standing in a course
// they are enrolled in. Per-lesson completion is not tracked yet:
// completed_lessons is always 0 and next_lesson always null.
func (s *enrollmentService) GetCourseProgress(ctx context.Context, actor *policy.Actor, courseID uint) (*CourseProgressResponse, error) {
	if !actor.IsStudent() {
		return nil, NewPermissionError(actorID(actor), courseID, "enrollment", "read", "only students have course progress")
	}

	enrollment, err := s.repo.Enrollment().GetByStudentAndCourse(ctx, nil, actor.ID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	totalLessons, err := s.repo.Lesson().CountByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	return &CourseProgressResponse{
		Progress:         enrollment.Progress,
		CompletedLessons: 0,
		TotalLessons:     totalLessons,
		NextLesson:       nil,
	}, nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, &events.Event{Type: eventType, Data: data}); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
