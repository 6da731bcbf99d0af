package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	// Category is matched case-insensitively and exactly when set.
	Category     *string `json:"category"`
	InstructorID *uint   `json:"instructor_id"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	UpdateProfilePic(ctx context.Context, tx *gorm.DB, id uint, path string) error

	// Delete removes the user, cascades its enrollments and nulls the
	// created_by reference on its lessons (the lessons survive).
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, error)
	ListByInstructor(ctx context.Context, tx *gorm.DB, instructorID uint) ([]*models.Course, error)
	ListEnrolledByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	UpdateImage(ctx context.Context, tx *gorm.DB, id uint, path string) error

	// Delete removes the course together with all its lessons and
	// enrollments in one transaction.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// AnnotateEnrollmentStats fills the computed total_students field on
	// each course and, when viewerStudentID is set, the is_enrolled flag
	// for that student.
	AnnotateEnrollmentStats(ctx context.Context, tx *gorm.DB, courses []*models.Course, viewerStudentID *uint) error
}

type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}

type EnrollmentRepository interface {
	// Create inserts the enrollment; a duplicate (student, course) pair
	// surfaces as a duplicated-key error from the unique index, never
	// from a pre-check.
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Enrollment, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}
