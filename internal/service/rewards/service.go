// Package rewards implements the reward catalog and point redemption.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	prommetrics "github.com/LionStoreTeam/ecometrics/internal/metrics"
	"github.com/LionStoreTeam/ecometrics/internal/models"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/internal/service/points"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// Redemption errors.
var (
	ErrInsufficientPoints = errors.New("insufficient points for reward")
	ErrOutOfStock         = errors.New("reward is out of stock")
	ErrRewardInactive     = errors.New("reward is not active")
)

// Service handles reward listing and redemption.
type Service struct {
	db         *repository.DB
	userRepo   *repository.UserRepository
	rewardRepo *repository.RewardRepository
	log        *logger.Logger
}

// NewService creates a new rewards service.
func NewService(
	db *repository.DB,
	userRepo *repository.UserRepository,
	rewardRepo *repository.RewardRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		db:         db,
		userRepo:   userRepo,
		rewardRepo: rewardRepo,
		log:        log.Component("rewards"),
	}
}

// List returns active rewards with remaining stock.
func (s *Service) List(ctx context.Context) ([]models.Reward, error) {
	return s.rewardRepo.ListActive()
}

// ListRedemptions returns a user's redemption history.
func (s *Service) ListRedemptions(ctx context.Context, userID uint) ([]models.Redemption, error) {
	return s.rewardRepo.ListRedemptionsByUser(userID)
}

// Redeem exchanges a user's points for a reward. Point deduction, stock
// decrement, and the redemption record commit in one transaction; the
// user's level is fully recomputed since points shrink.
func (s *Service) Redeem(ctx context.Context, userID, rewardID uint) (*models.Redemption, error) {
	var redemption *models.Redemption

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rewardRepo := s.rewardRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		reward, err := rewardRepo.GetByIDForUpdate(rewardID)
		if err != nil {
			return err
		}
		if !reward.Active {
			return ErrRewardInactive
		}
		if reward.Stock <= 0 {
			prommetrics.RecordRedemption("out_of_stock")
			return ErrOutOfStock
		}

		user, err := userRepo.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		if user.Points < reward.PointsCost {
			prommetrics.RecordRedemption("insufficient_points")
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, user.Points, reward.PointsCost)
		}

		user.Points = points.ClampPoints(user.Points - reward.PointsCost)
		user.Level = points.Level(user.Points)
		if err := userRepo.UpdatePointsAndLevel(user.ID, user.Points, user.Level); err != nil {
			return err
		}

		if err := rewardRepo.DecrementStock(reward.ID); err != nil {
			return err
		}

		redemption = &models.Redemption{
			UserID:     user.ID,
			RewardID:   reward.ID,
			PointsCost: reward.PointsCost,
			RedeemedAt: time.Now(),
		}
		return rewardRepo.CreateRedemption(redemption)
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordRedemption("ok")
	s.log.Info().
		Uint("user_id", userID).
		Uint("reward_id", rewardID).
		Int("points_cost", redemption.PointsCost).
		Msg("Reward redeemed")

	return redemption, nil
}
