package ports

// CredentialStore persists the bearer credential across restarts
type CredentialStore interface {
	// Load returns the stored credential, or "" when none is stored
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// CredentialSource is what the API client needs from the session
type CredentialSource interface {
	Credential() string

	// Clear drops the credential and profile after the server rejected them
	Clear() error
}
