package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// RewardRepository handles reward and redemption database operations.
type RewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new reward repository.
func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *RewardRepository) WithTx(tx *gorm.DB) *RewardRepository {
	return &RewardRepository{db: tx}
}

// Create persists a reward.
func (r *RewardRepository) Create(reward *models.Reward) error {
	if err := r.db.Create(reward).Error; err != nil {
		return fmt.Errorf("failed to create reward: %w", err)
	}
	return nil
}

// GetByID retrieves a reward by ID.
func (r *RewardRepository) GetByID(id uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get reward %d: %w", id, err)
	}
	return &reward, nil
}

// GetByIDForUpdate retrieves a reward by ID with a row lock, for stock decrement.
// SQLite has no FOR UPDATE; its single-writer model serializes regardless.
func (r *RewardRepository) GetByIDForUpdate(id uint) (*models.Reward, error) {
	q := r.db
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var reward models.Reward
	if err := q.First(&reward, id).Error; err != nil {
		return nil, fmt.Errorf("failed to lock reward %d: %w", id, err)
	}
	return &reward, nil
}

// ListActive retrieves all active rewards with remaining stock.
func (r *RewardRepository) ListActive() ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.
		Where("active = ? AND stock > 0", true).
		Order("points_cost ASC").
		Find(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}

// DecrementStock reduces a reward's stock by one.
func (r *RewardRepository) DecrementStock(id uint) error {
	err := r.db.Model(&models.Reward{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock - 1")).Error
	if err != nil {
		return fmt.Errorf("failed to decrement stock for reward %d: %w", id, err)
	}
	return nil
}

// CreateRedemption records a redeemed reward.
func (r *RewardRepository) CreateRedemption(redemption *models.Redemption) error {
	if err := r.db.Create(redemption).Error; err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}
	return nil
}

// ListRedemptionsByUser retrieves a user's redemptions, newest first.
func (r *RewardRepository) ListRedemptionsByUser(userID uint) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Reward").
		Order("redeemed_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions for user %d: %w", userID, err)
	}
	return redemptions, nil
}
