package github

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken indicates the provider answered the code exchange with a
// parseable body that carries no access token. This is a denial, not success.
var ErrNoAccessToken = errors.New("github: token exchange returned no access_token")

// ExchangeError is a non-success status from the token endpoint
type ExchangeError struct {
	StatusCode int
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("github: token exchange failed with status %d", e.StatusCode)
}

// ProfileFetchError is a non-success status from the user endpoint
type ProfileFetchError struct {
	StatusCode int
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("github: user fetch failed with status %d", e.StatusCode)
}
