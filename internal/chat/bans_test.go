package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryAt(ownerID int64, now time.Time) *BanRegistry {
	b := NewBanRegistry(ownerID)
	b.now = func() time.Time { return now }
	return b
}

func TestBanRegistry_TemporaryBanExpiresLazily(t *testing.T) {
	now := time.Now()
	b := registryAt(0, now)

	expiry := now.Add(time.Hour)
	b.Ban(1, BanRecord{Reason: "spam", ExpiresAt: &expiry})
	assert.True(t, b.IsBanned(1))

	b.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, b.IsBanned(1))

	// The lapsed record was dropped on the check
	_, ok := b.Record(1)
	assert.False(t, ok)
}

func TestBanRegistry_PermanentBanNeverExpires(t *testing.T) {
	now := time.Now()
	b := registryAt(0, now)

	b.Ban(1, BanRecord{Reason: "reports", Permanent: true})

	b.now = func() time.Time { return now.Add(1000 * time.Hour) }
	assert.True(t, b.IsBanned(1))
}

func TestBanRegistry_OwnerAlwaysExempt(t *testing.T) {
	b := NewBanRegistry(42)

	b.Ban(42, BanRecord{Reason: "spam", Permanent: true})

	assert.False(t, b.IsBanned(42))
}

func TestBanRegistry_Unban(t *testing.T) {
	b := NewBanRegistry(0)

	b.Ban(1, BanRecord{Permanent: true})
	assert.True(t, b.Unban(1))
	assert.False(t, b.IsBanned(1))

	// Idempotent
	assert.False(t, b.Unban(1))
}

func TestBanRegistry_SweepExpired(t *testing.T) {
	now := time.Now()
	b := registryAt(0, now)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	b.Ban(1, BanRecord{ExpiresAt: &past})
	b.Ban(2, BanRecord{ExpiresAt: &future})
	b.Ban(3, BanRecord{Permanent: true})

	lapsed := b.SweepExpired()

	require.Len(t, lapsed, 1)
	assert.Equal(t, int64(1), lapsed[0])
	assert.Equal(t, 2, b.Count())
}

func TestBanRegistry_Load(t *testing.T) {
	b := NewBanRegistry(0)

	b.Load(map[int64]BanRecord{
		1: {Permanent: true},
		2: {Reason: "spam"},
	})

	assert.True(t, b.IsBanned(1))
	assert.Equal(t, 2, b.Count())
}

func TestBanRecord_Active(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, BanRecord{Permanent: true}.Active(now))
	assert.True(t, BanRecord{ExpiresAt: &future}.Active(now))
	assert.False(t, BanRecord{ExpiresAt: &past}.Active(now))
	assert.False(t, BanRecord{}.Active(now))
}
