package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
)

func TestBanService_RecordAndLoad(t *testing.T) {
	db := testDB(t)
	svc := NewBanService(db)

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, svc.RecordBan(1, chat.BanRecord{Reason: "spam", ExpiresAt: &expiry}))
	require.NoError(t, svc.RecordBan(2, chat.BanRecord{Reason: "reports", Permanent: true}))

	active, err := svc.LoadActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "spam", active[1].Reason)
	assert.True(t, active[2].Permanent)
}

func TestBanService_LoadSkipsExpiredAndLifted(t *testing.T) {
	db := testDB(t)
	svc := NewBanService(db)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, svc.RecordBan(1, chat.BanRecord{Reason: "lapsed", ExpiresAt: &past}))
	require.NoError(t, svc.RecordBan(2, chat.BanRecord{Reason: "lifted", Permanent: true}))
	require.NoError(t, svc.RecordUnban(2, "admin"))

	active, err := svc.LoadActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	// The audit trail keeps both rows
	var total int64
	require.NoError(t, db.Model(&models.BanRecord{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestBanService_RebanSupersedesPreviousRecord(t *testing.T) {
	db := testDB(t)
	svc := NewBanService(db)

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, svc.RecordBan(1, chat.BanRecord{Reason: "first", ExpiresAt: &expiry}))
	require.NoError(t, svc.RecordBan(1, chat.BanRecord{Reason: "second", Permanent: true}))

	// Exactly one record stays active and it is the newest
	var activeRows []models.BanRecord
	require.NoError(t, db.Where("user_id = ? AND lifted = ?", 1, false).Find(&activeRows).Error)
	require.Len(t, activeRows, 1)
	assert.Equal(t, "second", activeRows[0].Reason)

	var superseded models.BanRecord
	require.NoError(t, db.First(&superseded, "user_id = ? AND lifted = ?", 1, true).Error)
	assert.Equal(t, "superseded", superseded.LiftedBy)
}

func TestBanService_RecordUnbanTracksWho(t *testing.T) {
	db := testDB(t)
	svc := NewBanService(db)

	require.NoError(t, svc.RecordBan(1, chat.BanRecord{Permanent: true}))
	require.NoError(t, svc.RecordUnban(1, "expired"))

	var row models.BanRecord
	require.NoError(t, db.First(&row, "user_id = ?", 1).Error)
	assert.True(t, row.Lifted)
	assert.Equal(t, "expired", row.LiftedBy)

	// Unban with no active record is a no-op
	assert.NoError(t, svc.RecordUnban(99, "admin"))
}
