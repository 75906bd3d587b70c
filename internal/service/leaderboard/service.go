// Package leaderboard ranks users by total points.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LionStoreTeam/ecometrics/internal/cache"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// Service computes the points leaderboard with a short-TTL cache in front
// of the database.
type Service struct {
	userRepo *repository.UserRepository
	cache    *cache.Cache
	ttl      time.Duration
	log      *logger.Logger
}

// NewService creates a new leaderboard service. cache may be nil, in which
// case every call hits the database.
func NewService(userRepo *repository.UserRepository, c *cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		cache:    c,
		ttl:      ttl,
		log:      log.Component("leaderboard"),
	}
}

// Top returns the highest-scoring users. Cached results may lag the
// database by up to the configured TTL.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	key := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.cache != nil {
		var cached []Entry
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Msg("Leaderboard cache read failed")
		}
	}

	users, err := s.userRepo.TopByPoints(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Points: u.Points,
			Level:  u.Level,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, entries, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("Leaderboard cache write failed")
		}
	}

	return entries, nil
}
