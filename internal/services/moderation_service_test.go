package services

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
)

func TestModerationService_AddReport(t *testing.T) {
	rdb, _ := testRedis(t)
	svc := NewModerationService(testDB(t), rdb)

	reports, supports, err := svc.AddReport(1, 100, models.ReportCategoryScam, "tried to sell me something")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reports)
	assert.Equal(t, int64(0), supports)

	reports, _, err = svc.AddReport(2, 100, models.ReportCategoryAbuse, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), reports)
}

func TestModerationService_ReportPairIsUnique(t *testing.T) {
	rdb, _ := testRedis(t)
	db := testDB(t)
	svc := NewModerationService(db, rdb)

	_, _, err := svc.AddReport(1, 100, models.ReportCategoryScam, "first")
	require.NoError(t, err)

	// Reporting the same partner again refreshes the row, never inflates
	reports, _, err := svc.AddReport(1, 100, models.ReportCategoryAbuse, "second")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reports)

	var stored models.Report
	require.NoError(t, db.First(&stored, "reporter_id = ? AND reported_id = ?", 1, 100).Error)
	assert.Equal(t, models.ReportCategoryAbuse, stored.Category)
	assert.Equal(t, "second", stored.Reason)
}

func TestModerationService_AddSupport(t *testing.T) {
	rdb, _ := testRedis(t)
	svc := NewModerationService(testDB(t), rdb)

	reports, supports, err := svc.AddSupport(1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reports)
	assert.Equal(t, int64(1), supports)

	_, _, err = svc.AddSupport(1, 100)
	assert.ErrorIs(t, err, chat.ErrAlreadySupported)

	_, supports, err = svc.AddSupport(2, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), supports)
}

func TestModerationService_TotalsServedFromCache(t *testing.T) {
	rdb, mr := testRedis(t)
	db := testDB(t)
	svc := NewModerationService(db, rdb)

	_, _, err := svc.AddReport(1, 100, models.ReportCategoryScam, "")
	require.NoError(t, err)

	// The first read populated the cache
	cached, err := mr.Get("reports:count:100")
	require.NoError(t, err)
	assert.Equal(t, "1", cached)

	// Poison the cache to prove reads prefer it over the database
	mr.Set("reports:count:100", "42")
	reports, _, err := svc.Totals(100)
	require.NoError(t, err)
	assert.Equal(t, int64(42), reports)

	// A new report invalidates and the recount lands back in the cache
	reports, _, err = svc.AddReport(2, 100, models.ReportCategoryScam, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), reports)
	cached, err = mr.Get("reports:count:100")
	require.NoError(t, err)
	assert.Equal(t, "2", cached)
}

func TestModerationService_TotalsWithoutRedis(t *testing.T) {
	svc := NewModerationService(testDB(t), nil)

	_, _, err := svc.AddReport(1, 100, models.ReportCategoryScam, "")
	require.NoError(t, err)

	reports, supports, err := svc.Totals(100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reports)
	assert.Equal(t, int64(0), supports)
}

func TestModerationService_SupportIncrementsCounter(t *testing.T) {
	rdb, mr := testRedis(t)
	svc := NewModerationService(testDB(t), rdb)

	for i := int64(1); i <= 3; i++ {
		_, _, err := svc.AddSupport(i, 100)
		require.NoError(t, err)
	}

	cached, err := mr.Get("supports:count:100")
	require.NoError(t, err)
	n, err := strconv.ParseInt(cached, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestModerationService_ListReports(t *testing.T) {
	rdb, _ := testRedis(t)
	db := testDB(t)
	svc := NewModerationService(db, rdb)

	for reporter := int64(1); reporter <= 5; reporter++ {
		_, _, err := svc.AddReport(reporter, 100, models.ReportCategoryScam, "")
		require.NoError(t, err)
	}

	list, total, err := svc.ListReports("", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, list, 3)

	list, total, err = svc.ListReports(models.ReportStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, list, 5)

	list, total, err = svc.ListReports(models.ReportStatusActioned, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)
}

func TestModerationService_ActionReport(t *testing.T) {
	rdb, _ := testRedis(t)
	db := testDB(t)
	svc := NewModerationService(db, rdb)

	_, _, err := svc.AddReport(1, 100, models.ReportCategoryScam, "")
	require.NoError(t, err)
	var report models.Report
	require.NoError(t, db.First(&report).Error)

	require.NoError(t, svc.ActionReport(report.ID, models.ReportStatusActioned, "banned for a day"))

	var updated models.Report
	require.NoError(t, db.First(&updated, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportStatusActioned, updated.Status)
	assert.Equal(t, "banned for a day", updated.AdminNote)
}

func TestModerationService_ActionReportValidation(t *testing.T) {
	rdb, _ := testRedis(t)
	svc := NewModerationService(testDB(t), rdb)

	err := svc.ActionReport(uuid.New(), "bogus", "")
	assert.Error(t, err)

	err = svc.ActionReport(uuid.New(), models.ReportStatusDismissed, "")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
