package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/course-service/internal/cache"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := getDB(u.db, tx).WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

// GetByID retrieves a user by ID with caching
func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := getDB(u.db, tx).WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, err
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail is on the login path and bypasses the cache: stale
// credentials are worse than one extra query.
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := getDB(u.db, tx).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := getDB(u.db, tx).WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	err := getDB(u.db, tx).WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) UpdateProfilePic(ctx context.Context, tx *gorm.DB, id uint, path string) error {
	err := getDB(u.db, tx).WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("profile_pic", path).Error
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, id)
	return nil
}

// Delete removes the user. Lessons the user created survive with their
// created_by nulled; the user's enrollments go with it. Runs as one unit
// inside the caller's transaction.
func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(u.db, tx).WithContext(ctx)

	if err := db.Model(&models.Lesson{}).Where("created_by_id = ?", id).Update("created_by_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach lessons from user: %w", err)
	}
	if err := db.Where("student_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return fmt.Errorf("failed to delete user enrollments: %w", err)
	}
	if err := db.Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, id)
	return nil
}
