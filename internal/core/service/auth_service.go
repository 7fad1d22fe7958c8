package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

const defaultBcryptCost = 10

// AuthService implements registration and credential verification. It is
// read-only against the user store on the login path.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenService
	bcryptCost int
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = defaultBcryptCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account with the regular user role and returns it
// together with a freshly issued token. The stored password is a bcrypt
// hash; the plaintext is discarded.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	existing, err := s.users.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created.Identity())
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Login verifies a username/password pair and issues a token on success.
// An unknown username and a wrong password produce the same rejection so
// the response cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
