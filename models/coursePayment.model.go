package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus of a recorded course payment
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// CoursePayment is a payment verified by the gateway integration and recorded here so that
// access status can report hasPaid. Order creation and signature checks happen upstream.
type CoursePayment struct {
	gorm.Model
	UserID   uint          `gorm:"not null;index" json:"userId"`
	CourseID uint          `gorm:"not null;index" json:"courseId"`
	Amount   int           `gorm:"not null" json:"amount"` // whole rupees
	Status   PaymentStatus `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`

	// Payment gateway details
	PaymentGateway string `gorm:"type:varchar(50)" json:"paymentGateway"`   // razorpay, phonepe, etc.
	PaymentOrderID string `gorm:"type:varchar(100)" json:"paymentOrderId"`  // Order ID from gateway
	PaymentID      string `gorm:"type:varchar(100);index" json:"paymentId"` // Transaction ID from gateway
	PaymentMethod  string `gorm:"type:varchar(50)" json:"paymentMethod"`    // UPI, card, netbanking

	RecordedBy uint      `gorm:"default:0" json:"recordedBy"`
	PaidAt     time.Time `gorm:"not null" json:"paidAt"`
	IsDeleted  bool      `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CoursePayment) TableName() string {
	return "course_payments"
}
