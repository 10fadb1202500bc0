package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) GetInstallationByInstallationID(installationID int64) (*models.GitHubInstallation, error) {
	var installation models.GitHubInstallation
	if err := s.db.Where("installation_id = ?", installationID).
		First(&installation).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &installation, nil
}

// UpsertInstallation records an app installation event, keyed on the
// provider's installation id. An unsuspend clears any suspension stamp.
func (s *Store) UpsertInstallation(event *github.Installation) (*models.GitHubInstallation, error) {
	permissions, err := json.Marshal(event.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode installation permissions: %w", err)
	}

	var installation models.GitHubInstallation
	err = s.db.Where("installation_id = ?", event.ID).First(&installation).Error

	if err == nil {
		installation.AccountType = normalizeAccountType(event.Account.Type)
		installation.AccountLogin = event.Account.Login
		installation.AccountID = event.Account.ID
		installation.Permissions = string(permissions)
		installation.RepositorySelection = event.RepositorySelection
		installation.SuspendedAt = nil
		if err := s.db.Save(&installation).Error; err != nil {
			return nil, fmt.Errorf("failed to update installation: %w", err)
		}
		return &installation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query installation: %w", err)
	}

	installation = models.GitHubInstallation{
		ID:                  uuid.New().String(),
		InstallationID:      event.ID,
		AccountType:         normalizeAccountType(event.Account.Type),
		AccountLogin:        event.Account.Login,
		AccountID:           event.Account.ID,
		Permissions:         string(permissions),
		RepositorySelection: event.RepositorySelection,
	}
	if err := s.db.Create(&installation).Error; err != nil {
		return nil, fmt.Errorf("failed to create installation: %w", err)
	}
	return &installation, nil
}

func (s *Store) SuspendInstallation(installationID int64) error {
	now := time.Now()
	result := s.db.Model(&models.GitHubInstallation{}).
		Where("installation_id = ?", installationID).
		Update("suspended_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteInstallation(installationID int64) error {
	return s.db.Where("installation_id = ?", installationID).
		Delete(&models.GitHubInstallation{}).Error
}

// normalizeAccountType maps the webhook's "Organization"/"User" onto the
// stored enum values
func normalizeAccountType(accountType string) string {
	if strings.EqualFold(accountType, "organization") {
		return models.AccountTypeOrganization
	}
	return models.AccountTypeUser
}
