package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/store"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("analysis session not found")
	ErrUnknownWorkflow = errors.New("unknown workflow type")
	ErrSessionNotOwned = errors.New("analysis session belongs to another user")
)

var workflowTypes = map[string]bool{
	models.WorkflowFullReview:    true,
	models.WorkflowQuickCheck:    true,
	models.WorkflowSecurityOnly:  true,
	models.WorkflowBestPractices: true,
	models.WorkflowCustom:        true,
}

type AnalysisService struct {
	store    *store.Store
	projects *ProjectService
}

func NewAnalysisService(s *store.Store, projects *ProjectService) *AnalysisService {
	return &AnalysisService{store: s, projects: projects}
}

// StartSession queues a new analysis session for a project the caller owns.
// Execution happens in an external worker; this backend owns the record and
// its lifecycle states.
func (s *AnalysisService) StartSession(
	ctx context.Context,
	projectID, userID, role, workflowType, commitSHA string,
) (*models.AnalysisSession, error) {
	if workflowType == "" {
		workflowType = models.WorkflowFullReview
	}
	if !workflowTypes[workflowType] {
		return nil, ErrUnknownWorkflow
	}

	if _, err := s.projects.GetOwned(ctx, projectID, userID, role); err != nil {
		return nil, err
	}

	session := &models.AnalysisSession{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		WorkflowType: workflowType,
		Status:       models.AnalysisStatusQueued,
		TriggeredBy:  userID,
		CommitSHA:    commitSHA,
	}

	if err := s.store.CreateAnalysisSession(session); err != nil {
		return nil, fmt.Errorf("failed to create analysis session: %w", err)
	}
	return session, nil
}

// GetOwnedSession loads a session and enforces ownership through its project
func (s *AnalysisService) GetOwnedSession(
	ctx context.Context,
	sessionID, userID, role string,
) (*models.AnalysisSession, error) {
	session, err := s.store.GetAnalysisSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if _, err := s.projects.GetOwned(ctx, session.ProjectID, userID, role); err != nil {
		if errors.Is(err, ErrNotProjectOwner) {
			return nil, ErrSessionNotOwned
		}
		return nil, err
	}
	return session, nil
}

func (s *AnalysisService) ListSessions(
	ctx context.Context,
	projectID, userID, role string,
) ([]models.AnalysisSession, error) {
	if _, err := s.projects.GetOwned(ctx, projectID, userID, role); err != nil {
		return nil, err
	}
	return s.store.ListAnalysisSessionsByProject(projectID)
}

func (s *AnalysisService) ListFindings(
	ctx context.Context,
	sessionID, userID, role string,
) ([]models.Finding, error) {
	if _, err := s.GetOwnedSession(ctx, sessionID, userID, role); err != nil {
		return nil, err
	}
	return s.store.ListFindingsBySession(sessionID)
}

func (s *AnalysisService) ListReports(
	ctx context.Context,
	sessionID, userID, role string,
) ([]models.Report, error) {
	if _, err := s.GetOwnedSession(ctx, sessionID, userID, role); err != nil {
		return nil, err
	}
	return s.store.ListReportsBySession(sessionID)
}
