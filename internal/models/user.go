package models

import (
	"time"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	AvatarURL string
	Role      string `gorm:"not null;default:'user'"` // "admin" or "user"

	// GitHub identity
	GitHubID           string `gorm:"uniqueIndex"` // provider's numeric id, stored as string
	GitHubUsername     string
	GitHubAccessToken  string
	GitHubRefreshToken string

	IsActive      bool `gorm:"not null;default:true"`
	EmailVerified bool `gorm:"not null;default:false"`

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
