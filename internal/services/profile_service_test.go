package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
)

func newProfileService(t *testing.T) *ProfileService {
	t.Helper()
	return NewProfileService(testDB(t), 2, 30)
}

func TestProfileService_GetOrCreate(t *testing.T) {
	svc := newProfileService(t)

	profile, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.False(t, profile.Complete())

	user, err := svc.Get(1)
	require.NoError(t, err)
	assert.Len(t, user.ReferralCode, 10)

	// Second call returns the same row
	again, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, user.ReferralCode, again.ReferralCode)
}

func TestProfileService_SetAttributes(t *testing.T) {
	svc := newProfileService(t)

	require.NoError(t, svc.SetGender(1, models.GenderFemale))
	require.NoError(t, svc.SetAge(1, 25))
	require.NoError(t, svc.SetCountry(1, "  Germany "))

	profile, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, chat.GenderFemale, profile.Gender)
	assert.Equal(t, 25, profile.Age)
	assert.Equal(t, "Germany", profile.Country)
	assert.True(t, profile.Complete())
}

func TestProfileService_AttributeValidation(t *testing.T) {
	svc := newProfileService(t)

	assert.ErrorIs(t, svc.SetGender(1, "other"), ErrInvalidGender)
	assert.ErrorIs(t, svc.SetAge(1, 12), ErrInvalidAge)
	assert.ErrorIs(t, svc.SetAge(1, 100), ErrInvalidAge)
	assert.NoError(t, svc.SetAge(1, 13))
	assert.NoError(t, svc.SetAge(1, 99))
}

func TestProfileService_ReferralAttribution(t *testing.T) {
	svc := newProfileService(t)

	_, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	referrer, err := svc.Get(1)
	require.NoError(t, err)

	_, err = svc.Register(2, referrer.ReferralCode)
	require.NoError(t, err)

	claimed, err := svc.Get(2)
	require.NoError(t, err)
	require.NotNil(t, claimed.ReferredBy)
	assert.Equal(t, int64(1), *claimed.ReferredBy)

	updated, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReferralCount)
}

func TestProfileService_ReferralCountsOnce(t *testing.T) {
	svc := newProfileService(t)

	_, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	referrer, err := svc.Get(1)
	require.NoError(t, err)

	_, err = svc.Register(2, referrer.ReferralCode)
	require.NoError(t, err)
	_, err = svc.Register(2, referrer.ReferralCode)
	require.NoError(t, err)

	updated, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReferralCount)
}

func TestProfileService_SelfReferralIgnored(t *testing.T) {
	svc := newProfileService(t)

	user, err := svc.Register(1, "")
	require.NoError(t, err)

	_, err = svc.Register(1, user.ReferralCode)
	require.NoError(t, err)

	updated, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.ReferralCount)
	assert.Nil(t, updated.ReferredBy)
}

func TestProfileService_UnknownCodeIgnored(t *testing.T) {
	svc := newProfileService(t)

	_, err := svc.Register(2, "nosuchcode")
	require.NoError(t, err)

	user, err := svc.Get(2)
	require.NoError(t, err)
	assert.Nil(t, user.ReferredBy)
}

func TestProfileService_ReferralGrantsPremium(t *testing.T) {
	// Threshold of 2 referrals, 30 premium days
	svc := newProfileService(t)

	_, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	referrer, err := svc.Get(1)
	require.NoError(t, err)

	_, err = svc.Register(2, referrer.ReferralCode)
	require.NoError(t, err)
	_, err = svc.Register(3, referrer.ReferralCode)
	require.NoError(t, err)

	updated, err := svc.Get(1)
	require.NoError(t, err)
	require.NotNil(t, updated.PremiumUntil)
	assert.True(t, updated.PremiumUntil.After(time.Now().AddDate(0, 0, 29)))
	// The counter starts over toward the next grant
	assert.Equal(t, 0, updated.ReferralCount)

	profile, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.True(t, profile.PremiumActive(time.Now()))
}

func TestProfileService_Counters(t *testing.T) {
	svc := newProfileService(t)

	_, err := svc.GetOrCreate(1)
	require.NoError(t, err)

	require.NoError(t, svc.IncrMessages(1))
	require.NoError(t, svc.IncrMessages(1))
	require.NoError(t, svc.IncrMediaApproved(1))
	require.NoError(t, svc.IncrMediaRejected(1))

	user, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.MessagesSent)
	assert.Equal(t, int64(1), user.MediaApproved)
	assert.Equal(t, int64(1), user.MediaRejected)
}
