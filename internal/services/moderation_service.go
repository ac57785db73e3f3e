package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrReportNotFound = errors.New("report not found")

const countCacheTTL = time.Hour

// ModerationService is the report/support ledger. Rows live in the database;
// the aggregate totals the auto-ban policy needs on every mutation are served
// cache-first from Redis with a DB fallback.
type ModerationService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewModerationService(db *gorm.DB, rdb *redis.Client) *ModerationService {
	return &ModerationService{db: db, rdb: rdb}
}

func reportCountKey(userID int64) string {
	return "reports:count:" + strconv.FormatInt(userID, 10)
}

func supportCountKey(userID int64) string {
	return "supports:count:" + strconv.FormatInt(userID, 10)
}

// AddReport files a report and returns the totals against the reported user.
// The (reporter, reported) pair is unique: reporting the same partner again
// refreshes the existing row and does not inflate the count.
func (s *ModerationService) AddReport(reporter, reported int64, category, reason string) (reports, supports int64, err error) {
	report := models.Report{
		ID:         uuid.New(),
		ReporterID: reporter,
		ReportedID: reported,
		Category:   category,
		Reason:     reason,
		Status:     models.ReportStatusPending,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reporter_id"}, {Name: "reported_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"category":   category,
			"reason":     reason,
			"updated_at": time.Now(),
		}),
	}).Create(&report)
	if res.Error != nil {
		return 0, 0, fmt.Errorf("create report: %w", res.Error)
	}

	// The upsert makes the DB count authoritative either way; drop the
	// cached value instead of guessing whether a new row was inserted.
	s.invalidate(reportCountKey(reported))
	return s.Totals(reported)
}

// AddSupport backs the supported user once per supporter.
func (s *ModerationService) AddSupport(supporter, supported int64) (reports, supports int64, err error) {
	support := models.Support{
		ID:          uuid.New(),
		SupporterID: supporter,
		SupportedID: supported,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "supporter_id"}, {Name: "supported_id"}},
		DoNothing: true,
	}).Create(&support)
	if res.Error != nil {
		return 0, 0, fmt.Errorf("create support: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, 0, chat.ErrAlreadySupported
	}

	ctx := context.Background()
	if s.rdb != nil {
		if _, err := s.rdb.Incr(ctx, supportCountKey(supported)).Result(); err == nil {
			s.rdb.Expire(ctx, supportCountKey(supported), countCacheTTL)
		}
	}
	return s.Totals(supported)
}

// Totals returns the aggregate report and support counts for a user,
// cache-first with a 1h TTL.
func (s *ModerationService) Totals(userID int64) (reports, supports int64, err error) {
	reports, err = s.countCached(reportCountKey(userID), func() (int64, error) {
		var n int64
		err := s.db.Model(&models.Report{}).Where("reported_id = ?", userID).Count(&n).Error
		return n, err
	})
	if err != nil {
		return 0, 0, err
	}
	supports, err = s.countCached(supportCountKey(userID), func() (int64, error) {
		var n int64
		err := s.db.Model(&models.Support{}).Where("supported_id = ?", userID).Count(&n).Error
		return n, err
	})
	if err != nil {
		return 0, 0, err
	}
	return reports, supports, nil
}

func (s *ModerationService) countCached(key string, fallback func() (int64, error)) (int64, error) {
	ctx := context.Background()

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				s.rdb.Expire(ctx, key, countCacheTTL)
				return n, nil
			}
		}
	}

	n, err := fallback()
	if err != nil {
		return 0, err
	}
	if s.rdb != nil {
		s.rdb.Set(ctx, key, strconv.FormatInt(n, 10), countCacheTTL)
	}
	return n, nil
}

func (s *ModerationService) invalidate(key string) {
	if s.rdb != nil {
		s.rdb.Del(context.Background(), key)
	}
}

// ListReports pages through reports for the admin panel.
func (s *ModerationService) ListReports(status string, limit, offset int) ([]models.Report, int64, error) {
	var list []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ActionReport records the admin decision on a report.
func (s *ModerationService) ActionReport(reportID uuid.UUID, status, adminNote string) error {
	valid := map[string]bool{
		models.ReportStatusReviewed:  true,
		models.ReportStatusActioned:  true,
		models.ReportStatusDismissed: true,
	}
	if !valid[status] {
		return errors.New("invalid status: must be reviewed, actioned, or dismissed")
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": adminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
