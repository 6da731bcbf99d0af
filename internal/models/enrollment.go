package models

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment links a student to a course. The (student, course) pair is
// unique at the storage layer so concurrent duplicate enrolls resolve to
// exactly one row.
type Enrollment struct {
	ID uint `json:"id" gorm:"primaryKey"`

	StudentID uint `json:"student" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Student   User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`

	CourseID uint   `json:"course" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Course   Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	Progress float64 `json:"progress" gorm:"type:decimal(5,2);not null;default:0"`

	// Per-lesson completion tracking is not implemented yet; the column
	// is reserved and always empty.
	CompletedLessonIDs datatypes.JSONSlice[uint] `json:"-"`

	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`

	// Computed fields (not stored)
	CourseTitle       string  `json:"course_title,omitempty" gorm:"-"`
	CourseDescription string  `json:"course_description,omitempty" gorm:"-"`
	CourseImage       *string `json:"course_image,omitempty" gorm:"-"`
	StudentName       string  `json:"student_name,omitempty" gorm:"-"`
	InstructorName    string  `json:"instructor_name,omitempty" gorm:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
