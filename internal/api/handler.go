// Package api provides REST handlers for activities, badges, rewards and
// the leaderboard.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/LionStoreTeam/ecometrics/internal/models"
	activitysvc "github.com/LionStoreTeam/ecometrics/internal/service/activity"
	"github.com/LionStoreTeam/ecometrics/internal/service/badges"
	"github.com/LionStoreTeam/ecometrics/internal/service/leaderboard"
	rewardsvc "github.com/LionStoreTeam/ecometrics/internal/service/rewards"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// ActivityService interface for activity operations.
type ActivityService interface {
	Create(ctx context.Context, userID uint, in activitysvc.CreateInput) (*models.Activity, []badges.Warning, error)
	AdminUpdate(ctx context.Context, actor *models.User, activityID uint, in activitysvc.UpdateInput) (*models.Activity, []badges.Warning, error)
	AdminDelete(ctx context.Context, actor *models.User, activityID uint) ([]badges.Warning, error)
	GetByID(ctx context.Context, actor *models.User, activityID uint) (*models.Activity, error)
	List(ctx context.Context, actor *models.User) ([]models.Activity, error)
}

// BadgeProvider interface for badge lookups.
type BadgeProvider interface {
	Catalog() []badges.Definition
	UserBadges(userID uint) ([]models.UserBadge, error)
}

// RewardService interface for reward operations.
type RewardService interface {
	List(ctx context.Context) ([]models.Reward, error)
	ListRedemptions(ctx context.Context, userID uint) ([]models.Redemption, error)
	Redeem(ctx context.Context, userID, rewardID uint) (*models.Redemption, error)
}

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// Handler handles API requests.
type Handler struct {
	activities  ActivityService
	badges      BadgeProvider
	rewards     RewardService
	leaderboard LeaderboardService
	log         *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	activities ActivityService,
	badgeProvider BadgeProvider,
	rewards RewardService,
	lb LeaderboardService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		activities:  activities,
		badges:      badgeProvider,
		rewards:     rewards,
		leaderboard: lb,
		log:         log.Component("api"),
	}
}

var errInvalidID = errors.New("id must be a positive integer")

// asValidationErrors unwraps err into validator.ValidationErrors.
func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

// errorResponse writes a structured error payload.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// handleServiceError maps service errors to HTTP responses. Unknown errors
// are logged and reported as a generic failure without internal detail.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		h.errorResponse(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, activitysvc.ErrForbidden):
		h.errorResponse(c, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, activitysvc.ErrValidation):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, rewardsvc.ErrInsufficientPoints),
		errors.Is(err, rewardsvc.ErrOutOfStock),
		errors.Is(err, rewardsvc.ErrRewardInactive):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
