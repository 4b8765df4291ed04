package models

import (
	"gorm.io/gorm"
)

// Fine-grained admin rights on top of the ADMIN role.
const (
	PermissionManageContent = "manage-content"
	PermissionRecordPayment = "record-payment"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID" json:"-"`
	Permission string `gorm:"type:varchar(255)"` // e.g. "record-payment"
	IsDeleted  bool   `gorm:"default:false"`
}
