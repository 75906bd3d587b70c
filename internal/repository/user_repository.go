package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	return &user, nil
}

// GetByIDForUpdate retrieves a user by ID with a row lock.
// Must be called inside a transaction; serializes concurrent point updates.
// SQLite has no FOR UPDATE; its single-writer model serializes regardless.
func (r *UserRepository) GetByIDForUpdate(id uint) (*models.User, error) {
	q := r.db
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := q.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// UpdatePointsAndLevel persists a user's points and level columns.
func (r *UserRepository) UpdatePointsAndLevel(userID uint, points, level int) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"points": points, "level": level}).Error
	if err != nil {
		return fmt.Errorf("failed to update points for user %d: %w", userID, err)
	}
	return nil
}

// TopByPoints retrieves the highest-scoring users.
func (r *UserRepository) TopByPoints(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Order("points DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}
	return users, nil
}
