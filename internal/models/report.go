package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is one user flagging another. The (reporter, reported) pair is
// unique; filing again refreshes the existing row instead of inflating the
// count against the reported user.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID int64     `gorm:"not null;uniqueIndex:idx_report_pair" json:"reporter_id"`
	ReportedID int64     `gorm:"not null;uniqueIndex:idx_report_pair;index" json:"reported_id"`
	Category   string    `gorm:"not null;size:50" json:"category"`
	Reason     string    `gorm:"size:500" json:"reason"`
	Status     string    `gorm:"not null;default:'pending';size:50" json:"status"`
	AdminNote  string    `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Report categories accepted from the bot UI.
const (
	ReportCategoryAdvertising = "advertising"
	ReportCategoryAbuse       = "abuse"
	ReportCategoryExplicit    = "explicit"
	ReportCategoryScam        = "scam"
	ReportCategoryOther       = "other"
)

// Report review statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusActioned  = "actioned"
	ReportStatusDismissed = "dismissed"
)
