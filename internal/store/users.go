package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByGitHubID(githubID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("git_hub_id = ?", githubID).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// UpsertGitHubUser creates or updates a user from a verified GitHub identity,
// keyed on the provider's unique user id. Role is never modified by login;
// the stored display name survives when the provider reports none.
func (s *Store) UpsertGitHubUser(
	profile *github.UserProfile,
	tokenData *github.TokenResponse,
) (*models.User, error) {
	githubID := fmt.Sprintf("%d", profile.ID)

	user, err := s.updateGitHubUser(githubID, profile, tokenData)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query user by github id: %w", err)
	}

	now := time.Now()
	email := profile.Email
	if email == "" {
		// Stable placeholder so repeat logins without a public email do
		// not churn the unique email column.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", profile.ID, profile.Login)
	}

	created := models.User{
		ID:                 uuid.New().String(),
		Email:              email,
		Name:               profile.Name,
		AvatarURL:          profile.AvatarURL,
		Role:               models.RoleUser,
		GitHubID:           githubID,
		GitHubUsername:     profile.Login,
		GitHubAccessToken:  tokenData.AccessToken,
		GitHubRefreshToken: tokenData.RefreshToken,
		IsActive:           true,
		LastLoginAt:        &now,
	}

	if err := s.db.Create(&created).Error; err != nil {
		// A concurrent login for the same identity may have inserted
		// first; the uniqueness constraint on github_id is the safety
		// net. Retry once as an update.
		if user, retryErr := s.updateGitHubUser(githubID, profile, tokenData); retryErr == nil {
			return user, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

func (s *Store) updateGitHubUser(
	githubID string,
	profile *github.UserProfile,
	tokenData *github.TokenResponse,
) (*models.User, error) {
	var user models.User
	if err := s.db.Where("git_hub_id = ?", githubID).First(&user).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	user.GitHubUsername = profile.Login
	user.GitHubAccessToken = tokenData.AccessToken
	user.GitHubRefreshToken = tokenData.RefreshToken
	user.AvatarURL = profile.AvatarURL
	user.LastLoginAt = &now
	if profile.Name != "" {
		user.Name = profile.Name
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}
