package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records every successful sign-in and sign-up.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"type:varchar(20);default:'LOGIN'"` // LOGIN, SIGNUP
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
	IsDeleted bool      `gorm:"default:false"`
}
