package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidAge      = errors.New("age must be between 13 and 99")
	ErrInvalidGender   = errors.New("gender must be male or female")
	ErrAlreadyReferred = errors.New("user already counted for a referral")
)

// ProfileService is the persistent profile collaborator behind the chat
// engine, plus the referral/premium bookkeeping around it.
type ProfileService struct {
	db                   *gorm.DB
	referralPremiumCount int
	premiumDays          int
}

func NewProfileService(db *gorm.DB, referralPremiumCount, premiumDays int) *ProfileService {
	return &ProfileService{
		db:                   db,
		referralPremiumCount: referralPremiumCount,
		premiumDays:          premiumDays,
	}
}

// GetOrCreate loads the user, creating a fresh row with a referral code on
// first interaction.
func (s *ProfileService) GetOrCreate(userID int64) (chat.Profile, error) {
	user, err := s.getOrCreate(userID)
	if err != nil {
		return chat.Profile{}, err
	}
	return toProfile(user), nil
}

func (s *ProfileService) getOrCreate(userID int64) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", userID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	user = models.User{ID: userID, ReferralCode: newReferralCode()}
	if err := s.db.Create(&user).Error; err != nil {
		// Lost a race with a concurrent first interaction; re-read.
		if readErr := s.db.First(&user, "id = ?", userID).Error; readErr == nil {
			return &user, nil
		}
		return nil, fmt.Errorf("create user %d: %w", userID, err)
	}
	return &user, nil
}

// Register creates the user if missing and, when the start payload carries a
// valid referral code of another user, attributes the referral once.
// Reaching the configured count grants the referrer premium.
func (s *ProfileService) Register(userID int64, referralCode string) (*models.User, error) {
	user, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if referralCode == "" || user.ReferredBy != nil || user.ReferralCode == referralCode {
		return user, nil
	}

	// Attribution only counts within the first interaction window: a user
	// who already talked to the bot cannot be claimed later.
	if time.Since(user.CreatedAt) > time.Minute {
		return user, nil
	}

	var referrer models.User
	if err := s.db.First(&referrer, "referral_code = ?", referralCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, nil
		}
		return nil, fmt.Errorf("resolve referral code: %w", err)
	}
	if referrer.ID == userID {
		return user, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("referred_by", referrer.ID).Error; err != nil {
			return err
		}
		referrer.ReferralCount++
		updates := map[string]interface{}{"referral_count": referrer.ReferralCount}
		if referrer.ReferralCount >= s.referralPremiumCount && s.referralPremiumCount > 0 {
			until := premiumExtension(referrer.PremiumUntil, s.premiumDays)
			updates["premium_until"] = until
			updates["referral_count"] = 0
		}
		return tx.Model(&models.User{}).Where("id = ?", referrer.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("attribute referral: %w", err)
	}
	return user, nil
}

func premiumExtension(current *time.Time, days int) time.Time {
	base := time.Now()
	if current != nil && current.After(base) {
		base = *current
	}
	return base.AddDate(0, 0, days)
}

// SetGender updates the profile attribute used by the matchmaker.
func (s *ProfileService) SetGender(userID int64, gender string) error {
	if gender != models.GenderMale && gender != models.GenderFemale {
		return ErrInvalidGender
	}
	return s.setAttribute(userID, "gender", gender)
}

func (s *ProfileService) SetAge(userID int64, age int) error {
	if age < 13 || age > 99 {
		return ErrInvalidAge
	}
	return s.setAttribute(userID, "age", age)
}

func (s *ProfileService) SetCountry(userID int64, country string) error {
	return s.setAttribute(userID, "country", strings.TrimSpace(country))
}

func (s *ProfileService) setAttribute(userID int64, field string, value interface{}) error {
	if _, err := s.getOrCreate(userID); err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update(field, value).Error
}

// Get returns the stored user without creating one.
func (s *ProfileService) Get(userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *ProfileService) IncrMessages(userID int64) error {
	return s.incrCounter(userID, "messages_sent")
}

func (s *ProfileService) IncrMediaApproved(userID int64) error {
	return s.incrCounter(userID, "media_approved")
}

func (s *ProfileService) IncrMediaRejected(userID int64) error {
	return s.incrCounter(userID, "media_rejected")
}

func (s *ProfileService) incrCounter(userID int64, column string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

func toProfile(u *models.User) chat.Profile {
	return chat.Profile{
		ID:           u.ID,
		Gender:       chat.Gender(u.Gender),
		Age:          u.Age,
		Country:      u.Country,
		PremiumUntil: u.PremiumUntil,
	}
}

func newReferralCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
