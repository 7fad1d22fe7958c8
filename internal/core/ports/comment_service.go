package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// CommentPage is one page of a post's comments plus pagination metadata.
type CommentPage struct {
	Comments   []domain.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentService exposes comment CRUD. Comment visibility follows the parent
// post: operations on comments of a hidden post report the post as absent.
type CommentService interface {
	Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, viewer *domain.Identity, postID string, page, limit int) (*CommentPage, error)
	Create(ctx context.Context, viewer *domain.Identity, postID, content string) (*domain.Comment, error)
	Update(ctx context.Context, viewer *domain.Identity, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, viewer *domain.Identity, id string) error
}
