// Package activity implements the activity recorder and the admin
// correction pipeline, including point and badge reconciliation.
package activity

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	prommetrics "github.com/LionStoreTeam/ecometrics/internal/metrics"
	"github.com/LionStoreTeam/ecometrics/internal/models"
	"github.com/LionStoreTeam/ecometrics/internal/repository"
	"github.com/LionStoreTeam/ecometrics/internal/service/badges"
	"github.com/LionStoreTeam/ecometrics/internal/service/points"
	"github.com/LionStoreTeam/ecometrics/internal/storage"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// Evidence file bounds per activity.
const (
	MinEvidenceFiles = 1
	MaxEvidenceFiles = 5
)

// Service errors.
var (
	ErrForbidden  = errors.New("operation requires admin role")
	ErrValidation = errors.New("invalid activity submission")
)

// Service records activities and applies admin corrections.
type Service struct {
	db           *repository.DB
	userRepo     *repository.UserRepository
	activityRepo *repository.ActivityRepository
	evaluator    *badges.Evaluator
	store        storage.EvidenceStorage
	log          *logger.Logger
}

// NewService creates a new activity service.
func NewService(
	db *repository.DB,
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	evaluator *badges.Evaluator,
	store storage.EvidenceStorage,
	log *logger.Logger,
) *Service {
	return &Service{
		db:           db,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		evaluator:    evaluator,
		store:        store,
		log:          log.Component("activity"),
	}
}

// CreateInput is a user's activity submission.
type CreateInput struct {
	Title       string
	Description string
	Type        string
	Quantity    float64
	Unit        string
	Date        time.Time
	Files       []*multipart.FileHeader
}

func (in *CreateInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.IsValidActivityType(in.Type) {
		return fmt.Errorf("%w: unknown activity type %q", ErrValidation, in.Type)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if len(in.Files) < MinEvidenceFiles || len(in.Files) > MaxEvidenceFiles {
		return fmt.Errorf("%w: between %d and %d evidence files required, got %d",
			ErrValidation, MinEvidenceFiles, MaxEvidenceFiles, len(in.Files))
	}
	return nil
}

// Create records a new activity for the user: uploads evidence, computes
// points, persists everything in one transaction, raises the user's level if
// it grew, and runs badge evaluation. Badge failures are returned as
// warnings, never as an error.
func (s *Service) Create(ctx context.Context, userID uint, in CreateInput) (*models.Activity, []badges.Warning, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	for _, f := range in.Files {
		if err := s.store.Validate(f); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrValidation, f.Filename, err)
		}
	}

	// Uploads happen before the transaction; the remote store is not
	// transactional, so failures after this point trigger best-effort cleanup.
	uploads, evidences, err := s.uploadEvidence(ctx, in.Files)
	if err != nil {
		return nil, nil, err
	}

	pts := points.Compute(in.Type, in.Quantity)

	act := &models.Activity{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Points:      pts,
		Status:      models.StatusPendingReview,
		Date:        in.Date,
		Evidences:   evidences,
	}

	var warnings []badges.Warning
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.activityRepo.WithTx(tx).Create(act); err != nil {
			return err
		}

		userRepo := s.userRepo.WithTx(tx)
		user, err := userRepo.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}

		user.Points += pts
		// Accrual path: the stored level only ever grows.
		if lvl := points.Level(user.Points); lvl > user.Level {
			user.Level = lvl
		}
		if err := userRepo.UpdatePointsAndLevel(user.ID, user.Points, user.Level); err != nil {
			return err
		}

		warnings = s.evaluateBadges(tx, user)
		return nil
	})
	if err != nil {
		s.cleanupUploads(uploads)
		return nil, nil, fmt.Errorf("failed to record activity: %w", err)
	}

	prommetrics.RecordActivity(in.Type, pts)
	s.log.Info().
		Uint("user_id", userID).
		Uint("activity_id", act.ID).
		Str("type", in.Type).
		Int("points", pts).
		Msg("Activity recorded")

	return act, warnings, nil
}

// UpdateInput is an admin edit request. Nil fields are left unchanged.
type UpdateInput struct {
	Title             *string
	Description       *string
	Type              *string
	Quantity          *float64
	Unit              *string
	Status            *string
	Date              *time.Time
	EvidencesToDelete []uint
}

// AdminUpdate applies an admin correction to an activity. When type or
// quantity changed the point value is recomputed and the difference applied
// to the owner's total (clamped at zero) with a full level recompute.
func (s *Service) AdminUpdate(ctx context.Context, actor *models.User, activityID uint, in UpdateInput) (*models.Activity, []badges.Warning, error) {
	if !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}
	if in.Type != nil && !models.IsValidActivityType(*in.Type) {
		return nil, nil, fmt.Errorf("%w: unknown activity type %q", ErrValidation, *in.Type)
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if in.Status != nil && *in.Status != models.StatusPendingReview && *in.Status != models.StatusReviewed {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
	}

	var act *models.Activity
	var warnings []badges.Warning
	var removedKeys []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activityRepo := s.activityRepo.WithTx(tx)

		var err error
		act, err = activityRepo.GetByID(activityID)
		if err != nil {
			return err
		}

		originalPoints := act.Points
		ownerID := act.UserID

		applyFields(act, in)

		recompute := in.Type != nil || in.Quantity != nil
		if recompute {
			act.Points = points.Compute(act.Type, act.Quantity)
		}

		if len(in.EvidencesToDelete) > 0 {
			removedKeys = keysFor(act.Evidences, in.EvidencesToDelete)
			if err := activityRepo.DeleteEvidences(act.ID, in.EvidencesToDelete); err != nil {
				return err
			}
			act.Evidences = withoutEvidences(act.Evidences, in.EvidencesToDelete)
		}

		if err := activityRepo.Update(act); err != nil {
			return err
		}

		warnings, err = s.applyPointsDelta(tx, ownerID, act.Points-originalPoints)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.cleanupKeys(removedKeys)
	prommetrics.RecordAdminCorrection("update")
	s.log.Info().
		Uint("admin_id", actor.ID).
		Uint("activity_id", activityID).
		Int("points", act.Points).
		Msg("Activity corrected")

	return act, warnings, nil
}

// AdminDelete removes an activity, its evidence, and reverses its points.
func (s *Service) AdminDelete(ctx context.Context, actor *models.User, activityID uint) ([]badges.Warning, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var warnings []badges.Warning
	var removedKeys []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activityRepo := s.activityRepo.WithTx(tx)

		act, err := activityRepo.GetByID(activityID)
		if err != nil {
			return err
		}

		for _, ev := range act.Evidences {
			removedKeys = append(removedKeys, ev.StorageKey)
		}

		if err := activityRepo.Delete(act.ID); err != nil {
			return err
		}

		warnings, err = s.applyPointsDelta(tx, act.UserID, -act.Points)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cleanupKeys(removedKeys)
	prommetrics.RecordAdminCorrection("delete")
	s.log.Info().
		Uint("admin_id", actor.ID).
		Uint("activity_id", activityID).
		Msg("Activity deleted")

	return warnings, nil
}

// GetByID retrieves an activity; non-admin callers only see their own.
func (s *Service) GetByID(ctx context.Context, actor *models.User, activityID uint) (*models.Activity, error) {
	act, err := s.activityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	if act.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return act, nil
}

// List retrieves activities: all of them for admins, own for users.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Activity, error) {
	if actor.IsAdmin() {
		return s.activityRepo.ListAll()
	}
	return s.activityRepo.ListByUser(actor.ID)
}

// applyPointsDelta adds delta to the owner's points inside tx, clamps at
// zero, fully recomputes the level (corrections can lower it), and re-runs
// badge evaluation.
func (s *Service) applyPointsDelta(tx *gorm.DB, ownerID uint, delta int) ([]badges.Warning, error) {
	userRepo := s.userRepo.WithTx(tx)
	user, err := userRepo.GetByIDForUpdate(ownerID)
	if err != nil {
		return nil, err
	}

	user.Points = points.ClampPoints(user.Points + delta)
	user.Level = points.Level(user.Points)
	if err := userRepo.UpdatePointsAndLevel(user.ID, user.Points, user.Level); err != nil {
		return nil, err
	}

	return s.evaluateBadges(tx, user), nil
}

// evaluateBadges runs the evaluator; its failures never fail the caller.
func (s *Service) evaluateBadges(tx *gorm.DB, user *models.User) []badges.Warning {
	_, warnings, err := s.evaluator.Evaluate(tx, user)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("Badge evaluation failed")
		warnings = append(warnings, badges.Warning{BadgeCode: "*", Reason: err.Error()})
	}
	return warnings
}

func (s *Service) uploadEvidence(ctx context.Context, files []*multipart.FileHeader) ([]string, []models.Evidence, error) {
	var keys []string
	var evidences []models.Evidence

	for _, f := range files {
		result, err := s.store.Upload(ctx, f)
		if err != nil {
			prommetrics.RecordEvidenceUpload("error")
			s.cleanupUploads(keys)
			return nil, nil, fmt.Errorf("failed to upload evidence %s: %w", f.Filename, err)
		}
		prommetrics.RecordEvidenceUpload("ok")
		keys = append(keys, result.Key)
		evidences = append(evidences, models.Evidence{
			StorageKey: result.Key,
			URL:        result.URL,
			FileName:   f.Filename,
			FileType:   result.Format,
			FileSize:   result.Size,
		})
	}
	return keys, evidences, nil
}

// cleanupUploads removes stored files after a failed create. Best effort:
// failures are logged, never returned.
func (s *Service) cleanupUploads(keys []string) {
	s.cleanupKeys(keys)
}

// cleanupKeys deletes remote files outside any transaction, best effort.
func (s *Service) cleanupKeys(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(context.Background(), key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to delete evidence file from storage")
		}
	}
}

func applyFields(act *models.Activity, in UpdateInput) {
	if in.Title != nil {
		act.Title = *in.Title
	}
	if in.Description != nil {
		act.Description = *in.Description
	}
	if in.Type != nil {
		act.Type = *in.Type
	}
	if in.Quantity != nil {
		act.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		act.Unit = *in.Unit
	}
	if in.Status != nil {
		act.Status = *in.Status
	}
	if in.Date != nil {
		act.Date = *in.Date
	}
}

func keysFor(evidences []models.Evidence, ids []uint) []string {
	idSet := make(map[uint]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var keys []string
	for _, ev := range evidences {
		if idSet[ev.ID] {
			keys = append(keys, ev.StorageKey)
		}
	}
	return keys
}

func withoutEvidences(evidences []models.Evidence, ids []uint) []models.Evidence {
	idSet := make(map[uint]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	kept := evidences[:0]
	for _, ev := range evidences {
		if !idSet[ev.ID] {
			kept = append(kept, ev)
		}
	}
	return kept
}
