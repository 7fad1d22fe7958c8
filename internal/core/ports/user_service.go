package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// UpdateUserInput carries the updatable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Email     *string
	Password  *string
}

// UserService exposes profile operations gated by the authorization rules:
// listing is admin-only, updates and deletes require self or admin, and the
// email field is projected away from third-party viewers.
type UserService interface {
	List(ctx context.Context, viewer *domain.Identity) ([]domain.User, error)
	Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.User, error)
	Update(ctx context.Context, viewer *domain.Identity, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, viewer *domain.Identity, id string) error
}
