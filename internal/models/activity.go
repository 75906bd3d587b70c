package models

import (
	"time"
)

// Activity represents a logged ecological action with its computed point value.
type Activity struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string     `gorm:"not null;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"not null;size:50;index" json:"type"`
	Quantity    float64    `gorm:"not null" json:"quantity"`
	Unit        string     `gorm:"size:50" json:"unit"`
	Points      int        `gorm:"not null" json:"points"`
	Status      string     `gorm:"size:50;default:PENDING_REVIEW" json:"status"`
	Date        time.Time  `gorm:"not null" json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Evidences   []Evidence `gorm:"foreignKey:ActivityID" json:"evidences,omitempty"`
}

// TableName specifies the table name for Activity model.
func (Activity) TableName() string {
	return "activities"
}

// Evidence represents a media file attached to an activity.
type Evidence struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;index" json:"activity_id"`
	StorageKey string    `gorm:"not null;size:512" json:"storage_key"` // provider public ID
	URL        string    `gorm:"type:text" json:"url"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	FileType   string    `gorm:"size:100" json:"file_type"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Evidence model.
func (Evidence) TableName() string {
	return "evidences"
}

// Activity type constants (ecological categories).
const (
	ActivityRecycling    = "RECYCLING"
	ActivityTreePlanting = "TREE_PLANTING"
	ActivityWaterSaving  = "WATER_SAVING"
	ActivityEnergySaving = "ENERGY_SAVING"
	ActivityComposting   = "COMPOSTING"
	ActivityEducation    = "EDUCATION"
	ActivityOther        = "OTHER"
)

// Activity status constants.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusReviewed      = "REVIEWED"
)

// ActivityTypes lists all known activity categories.
var ActivityTypes = []string{
	ActivityRecycling,
	ActivityTreePlanting,
	ActivityWaterSaving,
	ActivityEnergySaving,
	ActivityComposting,
	ActivityEducation,
	ActivityOther,
}

// IsValidActivityType reports whether t is a known activity category.
func IsValidActivityType(t string) bool {
	for _, known := range ActivityTypes {
		if known == t {
			return true
		}
	}
	return false
}
