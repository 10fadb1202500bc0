package models

import (
	"time"
)

// Finding severity levels
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
	SeverityInfo     = "info"
)

// Finding categories
const (
	CategorySecurity        = "security"
	CategoryPerformance     = "performance"
	CategoryStyle           = "style"
	CategoryBestPractice    = "best_practice"
	CategoryBug             = "bug"
	CategoryMaintainability = "maintainability"
)

type Finding struct {
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`

	FilePath    string `gorm:"not null"`
	LineStart   int
	LineEnd     int
	Severity    string `gorm:"not null"`
	Category    string `gorm:"not null"`
	RuleID      string
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Suggestion  string
	CodeSnippet string

	AIGenerated  bool
	AIConfidence float64
	AIModel      string

	CreatedAt time.Time
}
