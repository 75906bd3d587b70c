package badges

import (
	"fmt"

	"gorm.io/gorm"

	prommetrics "github.com/LionStoreTeam/ecometrics/internal/metrics"
	"github.com/LionStoreTeam/ecometrics/internal/models"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// Warning records a catalog entry that failed to evaluate or grant.
// Warnings never abort the surrounding transaction.
type Warning struct {
	BadgeCode string `json:"badge_code"`
	Reason    string `json:"reason"`
}

// Evaluator grants badges from an immutable catalog based on a user's
// aggregate activity state.
type Evaluator struct {
	catalog      []Definition
	badgeRepo    *repository.BadgeRepository
	activityRepo *repository.ActivityRepository
	log          *logger.Logger
}

// NewEvaluator creates a badge evaluator for the given catalog.
func NewEvaluator(
	catalog []Definition,
	badgeRepo *repository.BadgeRepository,
	activityRepo *repository.ActivityRepository,
	log *logger.Logger,
) *Evaluator {
	return &Evaluator{
		catalog:      catalog,
		badgeRepo:    badgeRepo,
		activityRepo: activityRepo,
		log:          log,
	}
}

// Catalog returns the catalog definitions in evaluation order.
func (e *Evaluator) Catalog() []Definition {
	return e.catalog
}

// UserBadges retrieves all badges a user has earned.
func (e *Evaluator) UserBadges(userID uint) ([]models.UserBadge, error) {
	return e.badgeRepo.GetUserBadges(userID)
}

// Seed upserts every catalog badge into the database so grants can
// reference badge rows. Run once at startup.
func (e *Evaluator) Seed() error {
	for i := range e.catalog {
		if err := e.badgeRepo.Upsert(e.catalog[i].Model()); err != nil {
			return err
		}
	}
	return nil
}

// aggregates holds the user state badge criteria are checked against.
type aggregates struct {
	activityCount int64
	totalPoints   int
	level         int
	quantityByTyp map[string]float64
}

// Evaluate checks every catalog badge the user does not yet hold and grants
// all that qualify, in catalog order. The user's points and level must be
// the freshly updated values. Entry failures are collected as warnings and
// evaluation continues; only a failure to read the held-badge set is an error.
//
// When tx is non-nil the evaluation runs inside that transaction.
func (e *Evaluator) Evaluate(tx *gorm.DB, user *models.User) ([]string, []Warning, error) {
	badgeRepo := e.badgeRepo
	activityRepo := e.activityRepo
	if tx != nil {
		badgeRepo = badgeRepo.WithTx(tx)
		activityRepo = activityRepo.WithTx(tx)
	}

	held, err := badgeRepo.GetUserBadgeCodes(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load held badges: %w", err)
	}

	count, err := activityRepo.CountByUser(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count activities: %w", err)
	}

	agg := &aggregates{
		activityCount: count,
		totalPoints:   user.Points,
		level:         user.Level,
		quantityByTyp: make(map[string]float64),
	}

	var granted []string
	var warnings []Warning

	for i := range e.catalog {
		def := &e.catalog[i]
		if held[def.Code] {
			continue
		}

		qualifies, err := e.qualifies(activityRepo, def, user.ID, agg)
		if err != nil {
			warnings = append(warnings, Warning{BadgeCode: def.Code, Reason: err.Error()})
			e.log.Error().Err(err).
				Uint("user_id", user.ID).
				Str("badge", def.Code).
				Msg("Failed to evaluate badge")
			continue
		}
		if !qualifies {
			continue
		}

		badge, err := badgeRepo.GetByCode(def.Code)
		if err != nil {
			warnings = append(warnings, Warning{BadgeCode: def.Code, Reason: err.Error()})
			e.log.Error().Err(err).Str("badge", def.Code).Msg("Badge row missing for catalog entry")
			continue
		}
		if err := badgeRepo.Grant(user.ID, badge.ID); err != nil {
			warnings = append(warnings, Warning{BadgeCode: def.Code, Reason: err.Error()})
			e.log.Error().Err(err).
				Uint("user_id", user.ID).
				Str("badge", def.Code).
				Msg("Failed to grant badge")
			continue
		}

		granted = append(granted, def.Code)
		prommetrics.RecordBadgeGranted(def.Code)
		e.log.Info().
			Uint("user_id", user.ID).
			Str("badge", def.Code).
			Msg("Badge granted")
	}

	return granted, warnings, nil
}

// qualifies checks one catalog entry against the user's aggregates.
// Per-type quantity sums are fetched lazily and memoized per evaluation.
func (e *Evaluator) qualifies(
	activityRepo *repository.ActivityRepository,
	def *Definition,
	userID uint,
	agg *aggregates,
) (bool, error) {
	switch def.Criteria.Type {
	case models.CriteriaActivityCount:
		return float64(agg.activityCount) >= def.Criteria.Threshold, nil
	case models.CriteriaUserLevel:
		return float64(agg.level) >= def.Criteria.Threshold, nil
	case models.CriteriaTotalPoints:
		return float64(agg.totalPoints) >= def.Criteria.Threshold, nil
	case models.CriteriaSpecificTypeCount:
		sum, ok := agg.quantityByTyp[def.Criteria.ActivityType]
		if !ok {
			var err error
			sum, err = activityRepo.SumQuantityByType(userID, def.Criteria.ActivityType)
			if err != nil {
				return false, err
			}
			agg.quantityByTyp[def.Criteria.ActivityType] = sum
		}
		return sum >= def.Criteria.Threshold, nil
	default:
		return false, fmt.Errorf("unknown criteria type %q", def.Criteria.Type)
	}
}
