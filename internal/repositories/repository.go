package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories behind one handle.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Lesson() LessonRepository
	Enrollment() EnrollmentRepository

	// Transaction support: fn runs inside a single transaction; every
	// repository method accepts the tx handle.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
