// Package models defines domain models for the EcoMetrics backend.
package models

import (
	"time"
)

// User represents a registered EcoMetrics user.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Role      string    `gorm:"size:50;default:USER" json:"role"` // 'USER' or 'ADMIN'
	Points    int       `gorm:"not null;default:0" json:"points"`
	Level     int       `gorm:"not null;default:1" json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// Role constants.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
