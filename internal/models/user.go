package models

import (
	"time"

	"gorm.io/gorm"
)

// User is keyed by the Telegram-assigned user ID. Rows are soft-deleted only;
// moderation history must survive account removal.
type User struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Gender  string `gorm:"size:10;default:''" json:"gender"`
	Age     int    `json:"age"`
	Country string `gorm:"size:100" json:"country"`

	MessagesSent  int64 `gorm:"not null;default:0" json:"messages_sent"`
	MediaApproved int64 `gorm:"not null;default:0" json:"media_approved"`
	MediaRejected int64 `gorm:"not null;default:0" json:"media_rejected"`

	ReferralCode  string     `gorm:"size:20;uniqueIndex" json:"referral_code"`
	ReferralCount int        `gorm:"not null;default:0" json:"referral_count"`
	ReferredBy    *int64     `gorm:"index" json:"-"`
	PremiumUntil  *time.Time `json:"premium_until,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Gender values stored on User.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnset  = ""
)
