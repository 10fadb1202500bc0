package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/store"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserService struct {
	store     *store.Store
	userCache cache.Cache[models.User]
	cacheTTL  time.Duration
}

func NewUserService(
	s *store.Store,
	userCache cache.Cache[models.User],
	cacheTTL time.Duration,
) *UserService {
	return &UserService{
		store:     s,
		userCache: userCache,
		cacheTTL:  cacheTTL,
	}
}

func userCacheKey(id string) string {
	return "user:" + id
}

// AuthenticateWithGitHub persists a verified GitHub identity and returns the
// local user. First login creates the record; every later login refreshes
// profile fields, provider tokens, and the last-login stamp.
func (s *UserService) AuthenticateWithGitHub(
	ctx context.Context,
	profile *github.UserProfile,
	tokenData *github.TokenResponse,
) (*models.User, error) {
	user, err := s.store.UpsertGitHubUser(profile, tokenData)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert github user: %w", err)
	}

	// The stored row changed; drop any cached copy
	s.InvalidateUserCache(ctx, user.ID)

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := cache.GetWithFetch(
		ctx,
		s.userCache,
		userCacheKey(id),
		s.cacheTTL,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.store.GetUserByID(id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return models.User{}, ErrUserNotFound
				}
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers()
}

// InvalidateUserCache drops the cached copy of a user
func (s *UserService) InvalidateUserCache(ctx context.Context, id string) {
	if err := s.userCache.Delete(ctx, userCacheKey(id)); err != nil {
		log.Printf("[User] Failed to invalidate cache for user=%s: %v", id, err)
	}
}
