package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogstack/blog-api/internal/core/authz"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

// CommentService implements comment CRUD. A comment's visibility inherits
// from its parent post: if the viewer may not read the post, every
// comment operation reports the resource as absent.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

// visiblePost loads a post and checks the viewer may read it, reporting
// notFound when the post is hidden from the viewer.
func (s *CommentService) visiblePost(ctx context.Context, viewer *domain.Identity, postID string, notFound error) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, notFound
		}
		return nil, err
	}

	ownership := authz.Ownership{OwnerID: post.AuthorID, Public: post.Published}
	if d := authz.CanPerform(viewer, authz.ActionRead, ownership); d != authz.Allowed {
		return nil, d.Err(notFound)
	}
	return post, nil
}

// Get returns one comment, hidden when its parent post is hidden.
func (s *CommentService) Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.visiblePost(ctx, viewer, comment.PostID, domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns a page of a post's comments, newest first.
func (s *CommentService) ListByPost(ctx context.Context, viewer *domain.Identity, postID string, page, limit int) (*ports.CommentPage, error) {
	if _, err := s.visiblePost(ctx, viewer, postID, domain.ErrPostNotFound); err != nil {
		return nil, err
	}

	page, limit = clampPage(page, limit)
	comments, total, err := s.comments.ListByPost(ctx, postID, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.CommentPage{
		Comments:   comments,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Create stores a new comment on a post the viewer can read. The author id
// is the viewer's, never taken from the payload.
func (s *CommentService) Create(ctx context.Context, viewer *domain.Identity, postID, content string) (*domain.Comment, error) {
	if d := authz.CanPerform(viewer, authz.ActionCreate, authz.Ownership{}); d != authz.Allowed {
		return nil, d.Err(domain.ErrPostNotFound)
	}
	if _, err := s.visiblePost(ctx, viewer, postID, domain.ErrPostNotFound); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		Content:   content,
		PostID:    postID,
		AuthorID:  viewer.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("comment_id", created.ID).Str("post_id", postID).Str("author_id", viewer.ID).Msg("comment created")
	return created, nil
}

// Update modifies a comment; only its author or an admin may do so.
func (s *CommentService) Update(ctx context.Context, viewer *domain.Identity, id, content string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownership := authz.Ownership{OwnerID: comment.AuthorID}
	if d := authz.CanPerform(viewer, authz.ActionUpdate, ownership); d != authz.Allowed {
		return nil, d.Err(domain.ErrCommentNotFound)
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()

	return s.comments.Update(ctx, comment)
}

// Delete removes a comment; only its author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, viewer *domain.Identity, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ownership := authz.Ownership{OwnerID: comment.AuthorID}
	if d := authz.CanPerform(viewer, authz.ActionDelete, ownership); d != authz.Allowed {
		return d.Err(domain.ErrCommentNotFound)
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("comment_id", id).Msg("comment deleted")
	return nil
}
