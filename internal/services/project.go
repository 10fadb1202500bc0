package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/store"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("project belongs to another user")
)

type ProjectService struct {
	store *store.Store
}

func NewProjectService(s *store.Store) *ProjectService {
	return &ProjectService{store: s}
}

// ProjectInput carries the client-supplied fields of a project
type ProjectInput struct {
	Name               string
	Description        string
	SourceType         string
	GitHubRepoURL      string
	GitHubRepoFullName string
	GitHubBranch       string
}

func (s *ProjectService) Create(
	ctx context.Context,
	userID string,
	input ProjectInput,
) (*models.Project, error) {
	branch := input.GitHubBranch
	if branch == "" {
		branch = "main"
	}

	project := &models.Project{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Name:               input.Name,
		Description:        input.Description,
		SourceType:         input.SourceType,
		GitHubRepoURL:      input.GitHubRepoURL,
		GitHubRepoFullName: input.GitHubRepoFullName,
		GitHubBranch:       branch,
		Status:             models.ProjectStatusPending,
	}

	if err := s.store.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetOwned loads a project and enforces ownership. Admins may read any
// project.
func (s *ProjectService) GetOwned(
	ctx context.Context,
	projectID, userID, role string,
) (*models.Project, error) {
	project, err := s.store.GetProjectByID(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.UserID != userID && role != models.RoleAdmin {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

func (s *ProjectService) ListByUser(ctx context.Context, userID string) ([]models.Project, error) {
	return s.store.ListProjectsByUser(userID)
}

// UpdateInput carries the mutable project fields; nil means "leave as is"
type UpdateInput struct {
	Name        *string
	Description *string
	Branch      *string
}

func (s *ProjectService) Update(
	ctx context.Context,
	projectID, userID, role string,
	input UpdateInput,
) (*models.Project, error) {
	project, err := s.GetOwned(ctx, projectID, userID, role)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Branch != nil {
		project.GitHubBranch = *input.Branch
	}

	if err := s.store.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID, userID, role string) error {
	if _, err := s.GetOwned(ctx, projectID, userID, role); err != nil {
		return err
	}
	return s.store.DeleteProject(projectID)
}

// TouchAnalyzed stamps a project after an analysis session completes
func (s *ProjectService) TouchAnalyzed(ctx context.Context, projectID string) error {
	project, err := s.store.GetProjectByID(projectID)
	if err != nil {
		return err
	}
	now := time.Now()
	project.LastAnalyzedAt = &now
	return s.store.UpdateProject(project)
}
