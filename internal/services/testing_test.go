package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/auth"
	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
	"github.com/campus-hub/course-service/internal/repositories"
	"github.com/campus-hub/course-service/internal/repositories/postgres"
	"github.com/campus-hub/course-service/internal/storage"
	"github.com/campus-hub/course-service/internal/validator"
	"github.com/campus-hub/course-service/pkg"
)

// testEnv wires every service against an in-memory sqlite database.
type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	manager   ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := pkg.MigrateModels(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	publisher := events.NewMockEventPublisher(logger)

	media, err := storage.NewMediaStore(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("media store: %v", err)
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	manager := NewDefaultServiceManager(db, repo, logger, validator.New(), publisher, media, tokens)

	return &testEnv{
		db:        db,
		repo:      repo,
		publisher: publisher,
		manager:   manager,
	}
}

// createUser inserts a user directly, bypassing the register flow.
func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructorID uint, title, category string) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:        title,
		Category:     category,
		InstructorID: instructorID,
	}
	if err := e.db.Create(course).Error; err != nil {
		t.Fatalf("create course %s: %v", title, err)
	}
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uint, createdBy *uint, title string) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		Title:       title,
		ContentType: models.ContentText,
		ContentURL:  "intro text",
		CourseID:    courseID,
		CreatedByID: createdBy,
	}
	if err := e.db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson %s: %v", title, err)
	}
	return lesson
}

func (e *testEnv) createEnrollment(t *testing.T, studentID, courseID uint, progress float64) *models.Enrollment {
	t.Helper()

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Progress:  progress,
	}
	if err := e.db.Create(enrollment).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	return enrollment
}

func actorFor(user *models.User) *policy.Actor {
	return &policy.Actor{ID: user.ID, Role: user.Role}
}

func testCtx() context.Context {
	return context.Background()
}
