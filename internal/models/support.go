package models

import (
	"time"

	"github.com/google/uuid"
)

// Support is a positive vote for a former chat partner. A user may back
// another user at most once; the pair carries a unique index.
type Support struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupporterID int64     `gorm:"not null;uniqueIndex:idx_support_pair" json:"supporter_id"`
	SupportedID int64     `gorm:"not null;uniqueIndex:idx_support_pair;index" json:"supported_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Support) TableName() string {
	return "supports"
}
