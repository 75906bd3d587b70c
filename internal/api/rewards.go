package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LionStoreTeam/ecometrics/internal/api/middleware"
)

// ListRewards handles GET /api/v1/rewards.
func (h *Handler) ListRewards(c *gin.Context) {
	rewards, err := h.rewards.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": rewards,
		"total":   len(rewards),
	})
}

// RedeemReward handles POST /api/v1/rewards/:id/redeem.
func (h *Handler) RedeemReward(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	redemption, err := h.rewards.Redeem(c.Request.Context(), user.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"redemption": redemption})
}

// ListMyRedemptions handles GET /api/v1/users/me/redemptions.
func (h *Handler) ListMyRedemptions(c *gin.Context) {
	user := middleware.CurrentUser(c)

	redemptions, err := h.rewards.ListRedemptions(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"total":       len(redemptions),
	})
}
