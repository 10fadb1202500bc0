package github

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppAuth mints GitHub App credentials: short-lived RS256 JWTs identifying
// the app, and installation access tokens derived from them.
type AppAuth struct {
	appID      string
	privateKey *rsa.PrivateKey
	apiBaseURL string
	client     *http.Client
	now        func() time.Time
}

// InstallationToken is a scoped token for one app installation
type InstallationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAppAuth parses the app's PEM private key and returns an AppAuth
func NewAppAuth(appID, privateKeyPEM, apiBaseURL string, client *http.Client) (*AppAuth, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse GitHub App private key: %w", err)
	}
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AppAuth{
		appID:      appID,
		privateKey: key,
		apiBaseURL: apiBaseURL,
		client:     client,
		now:        time.Now,
	}, nil
}

// AppJWT signs a JWT asserting the app's identity. Issued-at is backdated
// 60 seconds to absorb clock drift; GitHub caps validity at 10 minutes.
func (a *AppAuth) AppJWT() (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"iat": now.Add(-60 * time.Second).Unix(),
		"exp": now.Add(9 * time.Minute).Unix(),
		"iss": a.appID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}
	return signed, nil
}

// CreateInstallationToken exchanges the app JWT for an installation-scoped
// access token
func (a *AppAuth) CreateInstallationToken(
	ctx context.Context,
	installationID int64,
) (*InstallationToken, error) {
	appJWT, err := a.AppJWT()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.apiBaseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("installation token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"installation token request failed: %s - %s",
			resp.Status, string(body),
		)
	}

	var token InstallationToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode installation token: %w", err)
	}

	return &token, nil
}
