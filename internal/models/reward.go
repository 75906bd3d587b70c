package models

import (
	"time"
)

// Reward represents a redeemable reward offered by a partner business.
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Business    string    `gorm:"size:255" json:"business"`
	PointsCost  int       `gorm:"not null" json:"points_cost"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Reward model.
func (Reward) TableName() string {
	return "rewards"
}

// Redemption represents a reward claimed by a user.
type Redemption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RewardID   uint      `gorm:"not null;index" json:"reward_id"`
	Reward     Reward    `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
	PointsCost int       `gorm:"not null" json:"points_cost"` // cost at redemption time
	RedeemedAt time.Time `gorm:"not null" json:"redeemed_at"`
}

// TableName specifies the table name for Redemption model.
func (Redemption) TableName() string {
	return "redemptions"
}
