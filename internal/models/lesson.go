package models

import (
	"time"
)

type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentPDF   ContentType = "pdf"
	ContentText  ContentType = "text"
)

type Lesson struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:200"`
	ContentType ContentType `json:"content_type" gorm:"not null;size:10"`
	ContentURL  string      `json:"content_url" gorm:"type:text;not null"`

	CourseID uint   `json:"course" gorm:"not null;index"`
	Course   Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	// Survives deletion of its creator: the reference is nulled, the
	// lesson stays.
	CreatedByID *uint `json:"created_by" gorm:"index"`
	CreatedBy   *User `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
