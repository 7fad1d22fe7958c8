package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// PostFilter narrows a post listing. Published is a tri-state: nil means no
// constraint, otherwise only posts matching the pointed-to value.
type PostFilter struct {
	Title     string
	Published *bool
	AuthorID  string
	Page      int
	Limit     int
}

// PostRepository defines the persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// FindByID returns the post with its author embedded, or
	// domain.ErrPostNotFound.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns a page of posts (authors and comment counts embedded,
	// newest first) together with the total matching count.
	List(ctx context.Context, filter PostFilter) ([]domain.Post, int64, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
