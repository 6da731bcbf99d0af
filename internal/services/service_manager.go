package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/auth"
	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/storage"
	"github.com/campus-hub/course-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	// Service instances
	userService       UserService
	courseService     CourseService
	lessonService     LessonService
	enrollmentService EnrollmentService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewDefaultServiceManager creates a service manager with all dependencies.
func NewDefaultServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	media *storage.MediaStore,
	tokens *auth.TokenManager,
) ServiceManager {
	return &serviceManager{
		db:                db,
		repo:              repo,
		logger:            logger,
		validator:         validator,
		publisher:         publisher,
		userService:       NewUserService(repo, db, logger, validator, publisher, media, tokens),
		courseService:     NewCourseService(repo, db, logger, validator, publisher, media),
		lessonService:     NewLessonService(repo, db, logger, validator),
		enrollmentService: NewEnrollmentService(repo, db, logger, validator, publisher),
	}
}

func (m *serviceManager) User() UserService             { return m.userService }
func (m *serviceManager) Course() CourseService         { return m.courseService }
func (m *serviceManager) Lesson() LessonService         { return m.lessonService }
func (m *serviceManager) Enrollment() EnrollmentService { return m.enrollmentService }

// Initialize verifies the backing store is reachable.
func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping failed: %w", err)
	}

	m.initialized = true
	m.logger.Info("Services initialized")
	return nil
}

// Shutdown flushes the event publisher.
func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}

	m.logger.Info("Services shut down")
	return nil
}

// withTx runs fn in a single transaction against db.
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
