package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogstack/blog-api/internal/core/authz"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

// UserService implements profile operations over the user repository,
// applying the authorization and visibility rules before anything leaves
// the core.
type UserService struct {
	users      ports.UserRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(users ports.UserRepository, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = defaultBcryptCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// List returns every account, admin-only.
func (s *UserService) List(ctx context.Context, viewer *domain.Identity) ([]domain.User, error) {
	if d := authz.CanPerform(viewer, authz.ActionListUsers, authz.Ownership{}); d != authz.Allowed {
		return nil, d.Err(domain.ErrForbidden)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ProjectUsers(users, viewer), nil
}

// Get returns one profile. Profiles are public rows; the email field is
// projected away unless the viewer is the owner or an admin.
func (s *UserService) Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return authz.ProjectUser(user, viewer), nil
}

// Update modifies a profile; only the owner or an admin may do so. Email
// changes are rejected when the address already belongs to another account.
// A new password is re-hashed before storage.
func (s *UserService) Update(ctx context.Context, viewer *domain.Identity, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := authz.CanPerform(viewer, authz.ActionUpdate, authz.Ownership{OwnerID: user.ID}); d != authz.Allowed {
		return nil, d.Err(domain.ErrUserNotFound)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, *input.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")
	return authz.ProjectUser(updated, viewer), nil
}

// Delete removes an account; only the owner or an admin may do so.
func (s *UserService) Delete(ctx context.Context, viewer *domain.Identity, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if d := authz.CanPerform(viewer, authz.ActionDelete, authz.Ownership{OwnerID: user.ID}); d != authz.Allowed {
		return d.Err(domain.ErrUserNotFound)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("account deleted")
	return nil
}
