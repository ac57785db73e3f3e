package models

import "time"

// BanRecord is the durable trail behind the in-memory ban registry.
// At most one record per user has Lifted=false; banning again lifts the
// previous record and inserts a fresh one (last-writer-wins, no stacking).
type BanRecord struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"index;not null" json:"user_id"`
	Reason    string     `gorm:"type:text" json:"reason"`
	Permanent bool       `gorm:"not null;default:false" json:"permanent"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	Lifted    bool       `gorm:"not null;default:false;index" json:"lifted"`
	LiftedBy  string     `gorm:"size:50;default:''" json:"lifted_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (BanRecord) TableName() string {
	return "ban_records"
}
