package badges

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LionStoreTeam/ecometrics/internal/models"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

func setupEvaluatorTest(t *testing.T, catalog []Definition) (*Evaluator, *repository.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db := &repository.DB{DB: gdb}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate: %v", err)
	}

	badgeRepo := repository.NewBadgeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	eval := NewEvaluator(catalog, badgeRepo, activityRepo, logger.New("error", "json"))
	if err := eval.Seed(); err != nil {
		t.Fatalf("Failed to seed badges: %v", err)
	}
	return eval, db
}

func newTestUser(t *testing.T, db *repository.DB, pts, level int) *models.User {
	t.Helper()
	user := &models.User{
		Email:  "eval@example.com",
		Name:   "Eval",
		Role:   models.RoleUser,
		Points: pts,
		Level:  level,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func addActivity(t *testing.T, db *repository.DB, userID uint, actType string, quantity float64) {
	t.Helper()
	act := &models.Activity{
		UserID:   userID,
		Title:    "act",
		Type:     actType,
		Quantity: quantity,
		Points:   1,
		Date:     time.Now(),
	}
	if err := db.Create(act).Error; err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}
}

func testCatalog() []Definition {
	return []Definition{
		{
			Code: "FIRST_ACTIVITY", Name: "First Steps",
			Criteria: Criteria{Type: models.CriteriaActivityCount, Threshold: 1},
		},
		{
			Code: "RECYCLER_BRONZE", Name: "Bronze Recycler",
			Criteria: Criteria{
				Type:         models.CriteriaSpecificTypeCount,
				Threshold:    10,
				ActivityType: models.ActivityRecycling,
			},
		},
		{
			Code: "LEVEL_5", Name: "Green Veteran",
			Criteria: Criteria{Type: models.CriteriaUserLevel, Threshold: 5},
		},
		{
			Code: "POINTS_1K", Name: "Point Collector",
			Criteria: Criteria{Type: models.CriteriaTotalPoints, Threshold: 1000},
		},
	}
}

func TestEvaluate_GrantsFirstActivity(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 10, 1)
	addActivity(t, db, user.ID, models.ActivityRecycling, 2)

	granted, warnings, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(granted) != 1 || granted[0] != "FIRST_ACTIVITY" {
		t.Errorf("Expected [FIRST_ACTIVITY], got %v", granted)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 10, 1)
	addActivity(t, db, user.ID, models.ActivityRecycling, 2)

	first, _, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("First Evaluate() failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Expected grants on first pass")
	}

	second, _, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Second Evaluate() failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no grants on unchanged state, got %v", second)
	}
}

func TestEvaluate_ThresholdIsInclusive(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 1000, 3) // exactly the POINTS_1K threshold
	addActivity(t, db, user.ID, models.ActivityRecycling, 10)

	granted, _, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	want := map[string]bool{"FIRST_ACTIVITY": true, "RECYCLER_BRONZE": true, "POINTS_1K": true}
	if len(granted) != len(want) {
		t.Fatalf("Expected %d grants, got %v", len(want), granted)
	}
	for _, code := range granted {
		if !want[code] {
			t.Errorf("Unexpected grant %s", code)
		}
	}
}

func TestEvaluate_BelowThresholdNotGranted(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 999, 2)
	addActivity(t, db, user.ID, models.ActivityRecycling, 9.5)

	granted, _, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	for _, code := range granted {
		if code == "RECYCLER_BRONZE" || code == "POINTS_1K" {
			t.Errorf("Badge %s granted below threshold", code)
		}
	}
}

func TestEvaluate_UserLevelCriteria(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 2200, 5)
	addActivity(t, db, user.ID, models.ActivityEducation, 1)

	granted, _, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	found := false
	for _, code := range granted {
		if code == "LEVEL_5" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected LEVEL_5 at level 5, got %v", granted)
	}
}

func TestEvaluate_BadEntryProducesWarningAndContinues(t *testing.T) {
	// Catalog with a broken entry ahead of a valid one. ParseCatalog would
	// reject this; the evaluator still has to isolate the failure.
	catalog := []Definition{
		{
			Code: "BROKEN", Name: "Broken",
			Criteria: Criteria{Type: "NOT_A_CRITERIA", Threshold: 1},
		},
		{
			Code: "FIRST_ACTIVITY", Name: "First Steps",
			Criteria: Criteria{Type: models.CriteriaActivityCount, Threshold: 1},
		},
	}

	eval, db := setupEvaluatorTest(t, catalog)
	user := newTestUser(t, db, 10, 1)
	addActivity(t, db, user.ID, models.ActivityOther, 1)

	granted, warnings, err := eval.Evaluate(nil, user)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if len(warnings) != 1 || warnings[0].BadgeCode != "BROKEN" {
		t.Errorf("Expected one warning for BROKEN, got %v", warnings)
	}
	if len(granted) != 1 || granted[0] != "FIRST_ACTIVITY" {
		t.Errorf("Expected evaluation to continue past the broken entry, got %v", granted)
	}
}

func TestEvaluate_InsideTransaction(t *testing.T) {
	eval, db := setupEvaluatorTest(t, testCatalog())
	user := newTestUser(t, db, 10, 1)
	addActivity(t, db, user.ID, models.ActivityRecycling, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		granted, _, err := eval.Evaluate(tx, user)
		if err != nil {
			return err
		}
		if len(granted) != 1 {
			t.Errorf("Expected 1 grant inside tx, got %v", granted)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	held, err := repository.NewBadgeRepository(db).GetUserBadgeCodes(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadgeCodes() failed: %v", err)
	}
	if !held["FIRST_ACTIVITY"] {
		t.Error("Expected grant to be committed with the transaction")
	}
}
