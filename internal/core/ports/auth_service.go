package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at account creation. Role is
// not part of the input: every new account starts as a regular user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService implements registration and credential verification.
type AuthService interface {
	// Register creates an account and returns it with a freshly issued token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies a username/password pair and returns a token plus the
	// account. An unknown username and a wrong password are indistinguishable
	// (both domain.ErrInvalidCredentials).
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// TokenService issues and verifies the bearer tokens carried on requests.
type TokenService interface {
	Issue(identity domain.Identity) (string, error)
	// Verify checks signature integrity before reading any claims, then
	// expiry, and reconstructs the identity encoded in the token. Returns
	// domain.ErrTokenExpired or domain.ErrTokenInvalid on rejection.
	Verify(token string) (domain.Identity, error)
}

// LoginLimiter throttles repeated failed logins per username.
type LoginLimiter interface {
	// Allow reports whether another attempt for username is permitted.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure notes one failed attempt for username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
