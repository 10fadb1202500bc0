package models

import (
	"time"
)

// Analysis session states
const (
	AnalysisStatusQueued    = "queued"
	AnalysisStatusRunning   = "running"
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
	AnalysisStatusCancelled = "cancelled"
)

// Workflow types
const (
	WorkflowFullReview    = "full_review"
	WorkflowQuickCheck    = "quick_check"
	WorkflowSecurityOnly  = "security_only"
	WorkflowBestPractices = "best_practices"
	WorkflowCustom        = "custom"
)

// Analysis step states
const (
	StepStatusPending   = "pending"
	StepStatusRunning   = "running"
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
	StepStatusSkipped   = "skipped"
)

type AnalysisSession struct {
	ID             string `gorm:"primaryKey"`
	ProjectID      string `gorm:"index;not null"`
	WorkflowType   string `gorm:"not null;default:'full_review'"`
	WorkflowConfig string // JSON: steps, skipSteps, options

	Status        string `gorm:"not null;default:'queued'"`
	StatusMessage string

	TriggeredBy string
	CommitSHA   string
	Summary     string // JSON: finding counts by severity/category, duration

	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type AnalysisStep struct {
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`
	StepName  string `gorm:"not null"`
	StepOrder int    `gorm:"not null"`

	Status       string `gorm:"not null;default:'pending'"`
	InputData    string // JSON
	OutputData   string // JSON
	ErrorMessage string
	RetryCount   int `gorm:"default:0"`

	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}
