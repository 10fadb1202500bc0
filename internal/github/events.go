package github

// InstallationEvent is the payload of a GitHub App "installation" webhook
type InstallationEvent struct {
	Action       string       `json:"action"` // created, deleted, suspend, unsuspend, new_permissions_accepted
	Installation Installation `json:"installation"`
}

// Installation describes a GitHub App installation on an account
type Installation struct {
	ID                  int64             `json:"id"`
	Account             Account           `json:"account"`
	RepositorySelection string            `json:"repository_selection"`
	Permissions         map[string]string `json:"permissions"`
}

// Account is the org or user an app is installed on
type Account struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Type  string `json:"type"` // "Organization" or "User"
}
