package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// ActivityRepository handles activity and evidence database operations.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// Create persists an activity together with its evidence rows.
func (r *ActivityRepository) Create(activity *models.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetByID retrieves an activity with its evidences preloaded.
func (r *ActivityRepository) GetByID(id uint) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.Preload("Evidences").First(&activity, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get activity %d: %w", id, err)
	}
	return &activity, nil
}

// ListByUser retrieves all activities for a user, newest first.
func (r *ActivityRepository) ListByUser(userID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Evidences").
		Order("date DESC, id DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for user %d: %w", userID, err)
	}
	return activities, nil
}

// ListAll retrieves all activities, newest first.
func (r *ActivityRepository) ListAll() ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Preload("Evidences").
		Preload("User").
		Order("date DESC, id DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Update persists changes to an activity.
func (r *ActivityRepository) Update(activity *models.Activity) error {
	if err := r.db.Save(activity).Error; err != nil {
		return fmt.Errorf("failed to update activity %d: %w", activity.ID, err)
	}
	return nil
}

// Delete removes an activity and its evidence rows.
func (r *ActivityRepository) Delete(id uint) error {
	if err := r.db.Where("activity_id = ?", id).Delete(&models.Evidence{}).Error; err != nil {
		return fmt.Errorf("failed to delete evidences for activity %d: %w", id, err)
	}
	if err := r.db.Delete(&models.Activity{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete activity %d: %w", id, err)
	}
	return nil
}

// DeleteEvidences removes specific evidence rows belonging to an activity.
func (r *ActivityRepository) DeleteEvidences(activityID uint, evidenceIDs []uint) error {
	if len(evidenceIDs) == 0 {
		return nil
	}
	err := r.db.
		Where("activity_id = ? AND id IN ?", activityID, evidenceIDs).
		Delete(&models.Evidence{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete evidences for activity %d: %w", activityID, err)
	}
	return nil
}

// CountByUser returns the number of activities logged by a user.
func (r *ActivityRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activities for user %d: %w", userID, err)
	}
	return count, nil
}

// SumQuantityByType returns the summed quantity of a user's activities of one type.
func (r *ActivityRepository) SumQuantityByType(userID uint, activityType string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Activity{}).
		Where("user_id = ? AND type = ?", userID, activityType).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum quantity for user %d type %s: %w", userID, activityType, err)
	}
	return total, nil
}
