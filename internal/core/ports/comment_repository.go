package ports

import (
	"context"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// CommentRepository defines the persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	// FindByID returns the comment with its author embedded, or
	// domain.ErrCommentNotFound.
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByPost returns a page of a post's comments, newest first, together
	// with the total count for that post.
	ListByPost(ctx context.Context, postID string, page, limit int) ([]domain.Comment, int64, error)
	Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}
