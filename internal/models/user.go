package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
)

// ValidRole reports whether r is one of the two supported roles.
// The role set is closed; anything else is rejected at registration
// and denied by every policy predicate.
func ValidRole(r UserRole) bool {
	return r == RoleStudent || r == RoleInstructor
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName     string   `json:"full_name" gorm:"size:200"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	// Profile info
	ProfilePic *string `json:"profile_pic,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields (not stored)
	ProfilePicURL *string `json:"profile_pic_url" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}
