package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LionStoreTeam/ecometrics/internal/cache"
	"github.com/LionStoreTeam/ecometrics/internal/models"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

func setupLeaderboardTest(t *testing.T, withCache bool) (*Service, *repository.UserRepository) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db := &repository.DB{DB: gdb}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate: %v", err)
	}
	userRepo := repository.NewUserRepository(db)

	var c *cache.Cache
	if withCache {
		mr := miniredis.RunT(t)
		c = cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		t.Cleanup(func() { c.Close() })
	}

	svc := NewService(userRepo, c, time.Minute, logger.New("error", "json"))
	return svc, userRepo
}

func seedUsers(t *testing.T, userRepo *repository.UserRepository, pointsByName map[string]int) {
	t.Helper()
	for name, pts := range pointsByName {
		user := &models.User{
			Email:  fmt.Sprintf("lb-%s@example.com", name),
			Name:   name,
			Role:   models.RoleUser,
			Points: pts,
			Level:  pts/500 + 1,
		}
		if err := userRepo.Create(user); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
}

func TestTop_RanksByPoints(t *testing.T) {
	svc, userRepo := setupLeaderboardTest(t, false)
	seedUsers(t, userRepo, map[string]int{"ana": 700, "ben": 100, "col": 300})

	entries, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "ana" || entries[0].Rank != 1 {
		t.Errorf("Expected ana ranked first, got %+v", entries[0])
	}
	if entries[2].Name != "ben" || entries[2].Rank != 3 {
		t.Errorf("Expected ben ranked last, got %+v", entries[2])
	}
}

func TestTop_RespectsLimit(t *testing.T) {
	svc, userRepo := setupLeaderboardTest(t, false)
	seedUsers(t, userRepo, map[string]int{"ana": 700, "ben": 100, "col": 300})

	entries, err := svc.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestTop_ServesCachedResult(t *testing.T) {
	svc, userRepo := setupLeaderboardTest(t, true)
	seedUsers(t, userRepo, map[string]int{"ana": 700})

	first, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("First Top() failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(first))
	}

	// A new user does not appear until the cache entry expires
	seedUsers(t, userRepo, map[string]int{"newcomer": 9000})

	second, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Second Top() failed: %v", err)
	}
	if len(second) != 1 || second[0].Name != "ana" {
		t.Errorf("Expected cached result, got %+v", second)
	}
}

func TestTop_CacheKeyedByLimit(t *testing.T) {
	svc, userRepo := setupLeaderboardTest(t, true)
	seedUsers(t, userRepo, map[string]int{"ana": 700, "ben": 100, "col": 300})

	if _, err := svc.Top(context.Background(), 2); err != nil {
		t.Fatalf("Top(2) failed: %v", err)
	}

	entries, err := svc.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("Top(3) failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries under a different limit, got %d", len(entries))
	}
}
