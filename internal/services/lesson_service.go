package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/validator"
)

type lessonService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLessonService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
) LessonService {
	return &lessonService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Create attaches a lesson to a course. The policy check runs before
// validation, so a student submitting a malformed lesson sees forbidden
// rather than a validation error. The creator reference is forced to
// the caller.
func (s *lessonService) Create(ctx context.Context, actor *policy.Actor, req *CreateLessonRequest) (*models.Lesson, error) {
	if !policy.CanCreateLesson(actor) {
		return nil, NewPermissionError(actorID(actor), req.CourseID, "lesson", "create", "only instructors can create lessons")
	}

	if errs := s.validator.GetBusinessValidator().ValidateLessonCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	createdBy := actor.ID
	lesson := &models.Lesson{
		Title:       req.Title,
		ContentType: req.ContentType,
		ContentURL:  req.ContentURL,
		CourseID:    req.CourseID,
		CreatedByID: &createdBy,
	}

	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Lesson().Create(ctx, tx, lesson)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson created", "lesson_id", lesson.ID, "course_id", lesson.CourseID, "created_by", actor.ID)
	return lesson, nil
}
