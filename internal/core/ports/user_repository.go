package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail is used for duplicate detection at registration.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// EmailTaken reports whether email belongs to an account other than excludeID.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
