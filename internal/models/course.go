package models

import (
	"time"
)

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200;index"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"not null;size:100;index"`

	// Ownership: exactly one instructor, forced to the caller at create
	// time and never client-settable.
	InstructorID uint `json:"instructor" gorm:"not null;index"`
	Instructor   User `json:"-" gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE"`

	// Stored relative path; the cache layer round-trips models through
	// JSON, so this must serialize. Clients should use image_url.
	Image *string `json:"image,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lessons     []Lesson     `json:"lessons,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	InstructorName string   `json:"instructor_name" gorm:"-"`
	TotalStudents  int64    `json:"total_students" gorm:"-"`
	IsEnrolled     bool     `json:"is_enrolled" gorm:"-"`
	ImageURL       *string  `json:"image_url" gorm:"-"`
	Progress       *float64 `json:"progress,omitempty" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
