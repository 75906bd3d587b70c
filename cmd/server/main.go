// Command server runs the EcoMetrics API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LionStoreTeam/ecometrics/internal/api"
	"github.com/LionStoreTeam/ecometrics/internal/cache"
	"github.com/LionStoreTeam/ecometrics/internal/config"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	activitysvc "github.com/LionStoreTeam/ecometrics/internal/service/activity"
	"github.com/LionStoreTeam/ecometrics/internal/service/badges"
	"github.com/LionStoreTeam/ecometrics/internal/service/leaderboard"
	rewardsvc "github.com/LionStoreTeam/ecometrics/internal/service/rewards"
	"github.com/LionStoreTeam/ecometrics/internal/storage"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()
	log.Info().Str("environment", cfg.Server.Environment).Msg("Starting EcoMetrics API")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(&cfg.Database.Postgres, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Redis is optional: without it the leaderboard hits the database directly.
	var redisCache *cache.Cache
	if cfg.Database.Redis.Host != "" {
		redisCache, err = cache.New(&cfg.Database.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer redisCache.Close()
		}
	}

	store, err := storage.NewCloudinaryStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	catalog, err := badges.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load badge catalog")
	}

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	rewardRepo := repository.NewRewardRepository(db)

	evaluator := badges.NewEvaluator(catalog, badgeRepo, activityRepo, log)
	if err := evaluator.Seed(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed badge catalog")
	}
	log.Info().Int("badges", len(catalog)).Msg("Badge catalog loaded")

	activityService := activitysvc.NewService(db, userRepo, activityRepo, evaluator, store, log)
	rewardService := rewardsvc.NewService(db, userRepo, rewardRepo, log)
	leaderboardService := leaderboard.NewService(
		userRepo,
		redisCache,
		time.Duration(cfg.Gamification.LeaderboardCacheTTL)*time.Second,
		log,
	)

	handler := api.NewHandler(activityService, evaluator, rewardService, leaderboardService, log)
	router := api.NewRouter(cfg, handler, userRepo, db)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
