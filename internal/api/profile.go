package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LionStoreTeam/ecometrics/internal/api/middleware"
)

// GetProfile handles GET /api/v1/users/me.
func (h *Handler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetMyBadges handles GET /api/v1/users/me/badges.
func (h *Handler) GetMyBadges(c *gin.Context) {
	user := middleware.CurrentUser(c)

	userBadges, err := h.badges.UserBadges(user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badges": userBadges,
		"total":  len(userBadges),
	})
}

// GetBadgeCatalog handles GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badges": h.badges.Catalog()})
}

// GetLeaderboard handles GET /api/v1/leaderboard?limit=N.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.errorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       len(entries),
	})
}
