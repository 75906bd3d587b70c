package models

import (
	"time"
)

// Badge represents a catalog badge persisted for relational integrity.
// The authoritative catalog (criteria included) lives in the badges service;
// rows here are seeded from it at startup.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null;size:100" json:"code"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge represents a badge granted to a user. Grants are append-only.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index:idx_user_badge,unique" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID  uint      `gorm:"not null;index:idx_user_badge,unique" json:"badge_id"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}

// Badge criteria type constants.
const (
	CriteriaActivityCount     = "ACTIVITY_COUNT"
	CriteriaSpecificTypeCount = "SPECIFIC_ACTIVITY_TYPE_COUNT"
	CriteriaUserLevel         = "USER_LEVEL"
	CriteriaTotalPoints       = "TOTAL_POINTS"
)
