package models

import (
	"time"
)

// GitHub App installation account types
const (
	AccountTypeOrganization = "organization"
	AccountTypeUser         = "user"
)

// Repository selection scopes
const (
	RepositorySelectionAll      = "all"
	RepositorySelectionSelected = "selected"
)

type GitHubInstallation struct {
	ID             string `gorm:"primaryKey"`
	InstallationID int64  `gorm:"uniqueIndex;not null"`

	AccountType  string `gorm:"not null"` // "organization" or "user"
	AccountLogin string `gorm:"not null"`
	AccountID    int64  `gorm:"not null"`

	Permissions         string // JSON map of permission -> level
	RepositorySelection string `gorm:"not null"`

	SuspendedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
