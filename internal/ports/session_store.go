package ports

import "context"

// SessionStore persists the bearer token and API base URL across process
// restarts. Absent values read back as empty strings, not errors.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	BaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, baseURL string) error
	ClearBaseURL(ctx context.Context) error
}
