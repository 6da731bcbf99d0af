package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/cache"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create creates a new course and invalidates list caches
func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := getDB(c.db, tx).WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, fmt.Sprintf("instructor:%d:*", course.InstructorID))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	err := getDB(c.db, tx).WithContext(ctx).
		Preload("Instructor").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDWithLessons retrieves a course with its full lesson list, with
// caching. The instructor name is baked into the cached projection
// because the relation itself does not serialize. Viewer-dependent
// projections (is_enrolled) are never cached; they are annotated per
// request on top of this.
func (c *CoursePostgreSQL) GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := getDB(c.db, tx).WithContext(ctx).
			Preload("Instructor").
			Preload("Lessons", func(db *gorm.DB) *gorm.DB {
				return db.Order("lessons.created_at ASC")
			}).
			First(&dbCourse, id).Error
		if err != nil {
			return nil, err
		}
		dbCourse.InstructorName = dbCourse.Instructor.Username
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// List returns courses matching the filters. Category matching is
// case-insensitive and exact.
func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, error) {
	query := getDB(c.db, tx).WithContext(ctx).
		Model(&models.Course{}).
		Preload("Instructor")

	if filters.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", *filters.Category)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Limit > 0 || filters.Offset > 0 {
		query = query.Limit(clampLimit(filters.Limit)).Offset(filters.Offset)
	}

	var courses []*models.Course
	if err := query.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByInstructor(ctx context.Context, tx *gorm.DB, instructorID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := getDB(c.db, tx).WithContext(ctx).
		Preload("Instructor").
		Where("instructor_id = ?", instructorID).
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor courses: %w", err)
	}
	return courses, nil
}

// ListEnrolledByStudent returns every course the student holds an
// enrollment for, annotated with that student's own progress.
func (c *CoursePostgreSQL) ListEnrolledByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error) {
	db := getDB(c.db, tx).WithContext(ctx)

	var enrollments []*models.Enrollment
	err := db.Where("student_id = ?", studentID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return []*models.Course{}, nil
	}

	courseIDs := make([]uint, len(enrollments))
	progressByCourse := make(map[uint]float64, len(enrollments))
	for i, e := range enrollments {
		courseIDs[i] = e.CourseID
		progressByCourse[e.CourseID] = e.Progress
	}

	var courses []*models.Course
	if err := db.Preload("Instructor").Where("id IN ?", courseIDs).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to load enrolled courses: %w", err)
	}

	for _, course := range courses {
		p := progressByCourse[course.ID]
		course.Progress = &p
		course.IsEnrolled = true
	}
	return courses, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := getDB(c.db, tx).WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)
	return nil
}

func (c *CoursePostgreSQL) UpdateImage(ctx context.Context, tx *gorm.DB, id uint, path string) error {
	err := getDB(c.db, tx).WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		Update("image", path).Error
	if err != nil {
		return fmt.Errorf("failed to update course image: %w", err)
	}
	cache.SafeDelete(ctx, c.cacheManager.Course, fmt.Sprintf("details:%d", id))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

// Delete removes the course and cascades its lessons and enrollments.
// The foreign keys carry ON DELETE CASCADE as well; the explicit deletes
// keep the behavior independent of how the store was provisioned.
func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(c.db, tx).WithContext(ctx)

	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		return err
	}

	if err := db.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
		return fmt.Errorf("failed to delete course lessons: %w", err)
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return fmt.Errorf("failed to delete course enrollments: %w", err)
	}
	if err := db.Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, id, course.InstructorID)
	return nil
}

// AnnotateEnrollmentStats computes total_students per course with one
// grouped query and, for an authenticated student viewer, flips
// is_enrolled on the courses the viewer is enrolled in.
func (c *CoursePostgreSQL) AnnotateEnrollmentStats(ctx context.Context, tx *gorm.DB, courses []*models.Course, viewerStudentID *uint) error {
	if len(courses) == 0 {
		return nil
	}
	db := getDB(c.db, tx).WithContext(ctx)

	courseIDs := make([]uint, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}

	type enrollmentCount struct {
		CourseID uint
		Total    int64
	}
	var counts []enrollmentCount
	err := db.Model(&models.Enrollment{}).
		Select("course_id, COUNT(*) as total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}

	totals := make(map[uint]int64, len(counts))
	for _, count := range counts {
		totals[count.CourseID] = count.Total
	}

	enrolled := make(map[uint]bool)
	if viewerStudentID != nil {
		var enrolledIDs []uint
		err := db.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id IN ?", *viewerStudentID, courseIDs).
			Pluck("course_id", &enrolledIDs).Error
		if err != nil {
			return fmt.Errorf("failed to check viewer enrollments: %w", err)
		}
		for _, id := range enrolledIDs {
			enrolled[id] = true
		}
	}

	for _, course := range courses {
		course.TotalStudents = totals[course.ID]
		course.IsEnrolled = enrolled[course.ID]
	}
	return nil
}
