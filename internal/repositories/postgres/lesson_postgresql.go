package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/cache"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/repositories"
)

type LessonPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewLessonPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.LessonRepository {
	return &LessonPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create persists a lesson and drops the parent course's cached detail
// projection (it embeds the lesson list).
func (l *LessonPostgreSQL) Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	if err := getDB(l.db, tx).WithContext(ctx).Create(lesson).Error; err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	cache.SafeDelete(ctx, l.cacheManager.Course, fmt.Sprintf("details:%d", lesson.CourseID))
	return nil
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := getDB(l.db, tx).WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (l *LessonPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := getDB(l.db, tx).WithContext(ctx).Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}
