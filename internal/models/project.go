package models

import (
	"time"
)

// Project source types
const (
	ProjectSourceGitHub = "github"
	ProjectSourceUpload = "upload"
)

// Project lifecycle states
const (
	ProjectStatusPending   = "pending"
	ProjectStatusCloning   = "cloning"
	ProjectStatusCloned    = "cloned"
	ProjectStatusAnalyzing = "analyzing"
	ProjectStatusReady     = "ready"
	ProjectStatusError     = "error"
)

type Project struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string

	SourceType          string `gorm:"not null"` // "github" or "upload"
	GitHubRepoURL       string
	GitHubRepoFullName  string
	GitHubBranch        string `gorm:"default:'main'"`
	GitHubLastCommitSHA string

	StoragePath string
	StorageSize int64
	Metadata    string // JSON: languages, frameworks, file counts

	Status        string `gorm:"not null;default:'pending'"`
	StatusMessage string

	LastAnalyzedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
