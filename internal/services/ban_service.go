package services

import (
	"fmt"
	"time"

	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
	"gorm.io/gorm"
)

// BanService is the durable archive behind the in-memory ban registry. The
// registry stays authoritative at runtime; the archive restores the active
// set after a restart and keeps the audit trail.
type BanService struct {
	db *gorm.DB
}

func NewBanService(db *gorm.DB) *BanService {
	return &BanService{db: db}
}

// RecordBan lifts any previous record for the user and inserts the new one.
func (s *BanService) RecordBan(userID int64, rec chat.BanRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BanRecord{}).
			Where("user_id = ? AND lifted = ?", userID, false).
			Updates(map[string]interface{}{"lifted": true, "lifted_by": "superseded"}).Error; err != nil {
			return err
		}
		row := models.BanRecord{
			UserID:    userID,
			Reason:    rec.Reason,
			Permanent: rec.Permanent,
			ExpiresAt: rec.ExpiresAt,
		}
		return tx.Create(&row).Error
	})
}

// RecordUnban marks the user's active record as lifted.
func (s *BanService) RecordUnban(userID int64, liftedBy string) error {
	return s.db.Model(&models.BanRecord{}).
		Where("user_id = ? AND lifted = ?", userID, false).
		Updates(map[string]interface{}{"lifted": true, "lifted_by": liftedBy}).Error
}

// LoadActive returns the bans that still hold right now, keyed by user.
func (s *BanService) LoadActive() (map[int64]chat.BanRecord, error) {
	var rows []models.BanRecord
	now := time.Now()
	err := s.db.
		Where("lifted = ?", false).
		Where("permanent = ? OR expires_at > ?", true, now).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load ban records: %w", err)
	}

	active := make(map[int64]chat.BanRecord, len(rows))
	for _, row := range rows {
		active[row.UserID] = chat.BanRecord{
			Reason:    row.Reason,
			Permanent: row.Permanent,
			ExpiresAt: row.ExpiresAt,
		}
	}
	return active, nil
}
