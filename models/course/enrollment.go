package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course and whether it has been paid for
type Enrollment struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	CourseID  uint       `json:"course_id" gorm:"index;not null"`
	Status    string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, COMPLETED
	HasPaid   bool       `json:"has_paid" gorm:"default:false"`
	PaidAt    *time.Time `json:"paid_at"`
	IsDeleted bool       `gorm:"default:false" json:"-"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
