package store

import (
	"github.com/repolens/repolens/internal/models"
)

func (s *Store) CreateAnalysisSession(session *models.AnalysisSession) error {
	return s.db.Create(session).Error
}

func (s *Store) GetAnalysisSessionByID(id string) (*models.AnalysisSession, error) {
	var session models.AnalysisSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &session, nil
}

func (s *Store) ListAnalysisSessionsByProject(projectID string) ([]models.AnalysisSession, error) {
	var sessions []models.AnalysisSession
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) UpdateAnalysisSession(session *models.AnalysisSession) error {
	return s.db.Save(session).Error
}

func (s *Store) CreateFindings(findings []models.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return s.db.Create(&findings).Error
}

func (s *Store) ListFindingsBySession(sessionID string) ([]models.Finding, error) {
	var findings []models.Finding
	if err := s.db.Where("session_id = ?", sessionID).
		Order("severity, file_path, line_start").
		Find(&findings).Error; err != nil {
		return nil, err
	}
	return findings, nil
}

func (s *Store) CreateReport(report *models.Report) error {
	return s.db.Create(report).Error
}

func (s *Store) ListReportsBySession(sessionID string) ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
