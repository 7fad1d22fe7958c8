package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// CreatePostInput carries the fields accepted when creating a post. The
// author is always the caller; it is never taken from the payload.
type CreatePostInput struct {
	Title     string
	Content   string
	Published bool
}

// UpdatePostInput carries the updatable post fields. Nil means unchanged.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Published *bool
}

// ListPostsInput carries listing parameters. PublishedParam is the raw
// published query value; it only takes effect for admin viewers.
type ListPostsInput struct {
	Title          string
	PublishedParam *bool
	AuthorID       string
	Page           int
	Limit          int
}

// PostPage is one page of posts plus pagination metadata.
type PostPage struct {
	Posts      []domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService exposes post CRUD gated by visibility and ownership rules.
type PostService interface {
	List(ctx context.Context, viewer *domain.Identity, input ListPostsInput) (*PostPage, error)
	Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.Post, error)
	Create(ctx context.Context, viewer *domain.Identity, input CreatePostInput) (*domain.Post, error)
	Update(ctx context.Context, viewer *domain.Identity, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, viewer *domain.Identity, id string) error
}
