package models

import (
	"time"
)

// Report formats
const (
	ReportFormatJSON     = "json"
	ReportFormatMarkdown = "markdown"
	ReportFormatPDF      = "pdf"
	ReportFormatHTML     = "html"
)

type Report struct {
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`

	Format     string `gorm:"not null"`
	Title      string
	StorageURL string
	Summary    string // JSON: totals, health score, top issues

	ExpiresAt *time.Time
	CreatedAt time.Time
}
