package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *BadgeRepository) WithTx(tx *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: tx}
}

// Upsert creates a badge row or updates name/description/icon by code.
// Used to seed the static catalog at startup.
func (r *BadgeRepository) Upsert(badge *models.Badge) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "updated_at"}),
	}).Create(badge).Error
	if err != nil {
		return fmt.Errorf("failed to upsert badge %s: %w", badge.Code, err)
	}
	return nil
}

// GetByCode retrieves a badge by its catalog code.
func (r *BadgeRepository) GetByCode(code string) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.Where("code = ?", code).First(&badge).Error; err != nil {
		return nil, fmt.Errorf("failed to get badge %s: %w", code, err)
	}
	return &badge, nil
}

// GetAll retrieves all badges in catalog seed order.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("id ASC").Find(&badges).Error
	return badges, err
}

// HasUserEarnedBadge checks if a user has earned a specific badge.
func (r *BadgeRepository) HasUserEarnedBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Grant awards a badge to a user. Idempotent: granting an already-held
// badge is a no-op.
func (r *BadgeRepository) Grant(userID, badgeID uint) error {
	held, err := r.HasUserEarnedBadge(userID, badgeID)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	userBadge := &models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}
	return r.db.Create(userBadge).Error
}

// GetUserBadges retrieves all badges earned by a user with badge details preloaded.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// GetUserBadgeCodes retrieves the set of badge codes a user holds.
func (r *BadgeRepository) GetUserBadgeCodes(userID uint) (map[string]bool, error) {
	var codes []string
	err := r.db.Model(&models.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Pluck("badges.code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get badge codes for user %d: %w", userID, err)
	}

	held := make(map[string]bool, len(codes))
	for _, c := range codes {
		held[c] = true
	}
	return held, nil
}
