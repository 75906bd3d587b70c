package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LionStoreTeam/ecometrics/internal/api/middleware"
	"github.com/LionStoreTeam/ecometrics/internal/config"
)

// HealthChecker reports backing-store health.
type HealthChecker interface {
	Health() error
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(
	cfg *config.Config,
	handler *Handler,
	users middleware.UserLoader,
	db HealthChecker,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public catalog endpoints
	v1.GET("/badges", handler.GetBadgeCatalog)
	v1.GET("/leaderboard", handler.GetLeaderboard)
	v1.GET("/rewards", handler.ListRewards)

	// Authenticated endpoints
	auth := v1.Group("", middleware.Auth(cfg.Auth.JWTSecret, users))
	auth.POST("/activities", handler.CreateActivity)
	auth.GET("/activities", handler.ListActivities)
	auth.GET("/activities/:id", handler.GetActivity)
	auth.GET("/users/me", handler.GetProfile)
	auth.GET("/users/me/badges", handler.GetMyBadges)
	auth.GET("/users/me/redemptions", handler.ListMyRedemptions)
	auth.POST("/rewards/:id/redeem", handler.RedeemReward)

	// Admin endpoints
	admin := auth.Group("/admin", middleware.RequireAdmin())
	admin.PATCH("/activities/:id", handler.UpdateActivity)
	admin.DELETE("/activities/:id", handler.DeleteActivity)

	return router
}
