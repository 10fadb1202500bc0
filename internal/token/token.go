package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum signing secret size in bytes
const MinSecretLength = 32

var (
	// ErrInvalidToken covers every verification failure: malformed input,
	// signature mismatch, wrong algorithm, or expiry. Callers must not
	// distinguish these for the end user.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSecretTooShort is returned at construction for weak secrets
	ErrSecretTooShort = fmt.Errorf("token: signing secret must be at least %d bytes", MinSecretLength)
)

// Claims is the identity a session credential asserts
type Claims struct {
	UserID         string
	GitHubUsername string
	Role           string
}

// Service signs and verifies session credentials. Credentials are not
// persisted; rotating the secret invalidates everything previously issued.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New creates a token service. The secret is process-wide configuration
// loaded once at startup.
func New(secret, issuer string, ttl time.Duration) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// Sign issues a credential embedding the claims with a fixed expiry window
func (s *Service) Sign(c Claims) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":         c.UserID,
		"github_username": c.GitHubUsername,
		"role":            c.Role,
		"iat":             now.Unix(),
		"exp":             now.Add(s.ttl).Unix(),
		"iss":             s.issuer,
		"jti":             uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a credential and returns its claims. All failure modes
// collapse to ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["github_username"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:         userID,
		GitHubUsername: username,
		Role:           role,
	}, nil
}
