package store

import (
	"github.com/repolens/repolens/internal/models"
)

func (s *Store) CreateProject(project *models.Project) error {
	return s.db.Create(project).Error
}

func (s *Store) GetProjectByID(id string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &project, nil
}

func (s *Store) ListProjectsByUser(userID string) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) UpdateProject(project *models.Project) error {
	return s.db.Save(project).Error
}

// DeleteProject removes a project and its dependent analysis records.
// Cascade is done here rather than with FK constraints so sqlite and
// postgres behave identically.
func (s *Store) DeleteProject(id string) error {
	var sessionIDs []string
	if err := s.db.Model(&models.AnalysisSession{}).
		Where("project_id = ?", id).
		Pluck("id", &sessionIDs).Error; err != nil {
		return err
	}

	if len(sessionIDs) > 0 {
		if err := s.db.Where("session_id IN ?", sessionIDs).
			Delete(&models.Finding{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("session_id IN ?", sessionIDs).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("session_id IN ?", sessionIDs).
			Delete(&models.AnalysisStep{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("project_id = ?", id).
			Delete(&models.AnalysisSession{}).Error; err != nil {
			return err
		}
	}

	return s.db.Where("id = ?", id).Delete(&models.Project{}).Error
}
