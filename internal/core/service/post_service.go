package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogstack/blog-api/internal/core/authz"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PostService implements post CRUD over the post repository, enforcing the
// published/ownership visibility rules.
type PostService struct {
	posts  ports.PostRepository
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// List returns a page of posts. Anonymous and regular viewers only see
// published posts; admins see everything and may filter on the published
// flag. When listing a single author's posts, that author also sees their
// own unpublished entries.
func (s *PostService) List(ctx context.Context, viewer *domain.Identity, input ports.ListPostsInput) (*ports.PostPage, error) {
	page, limit := clampPage(input.Page, input.Limit)

	filter := ports.PostFilter{
		Title:    input.Title,
		AuthorID: input.AuthorID,
		Page:     page,
		Limit:    limit,
	}

	switch {
	case viewer != nil && viewer.IsAdmin():
		filter.Published = input.PublishedParam
	case viewer != nil && input.AuthorID != "" && viewer.ID == input.AuthorID:
		// author browsing their own posts, no published constraint
	default:
		published := true
		filter.Published = &published
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Get returns one post with its comments. An unpublished post is reported
// as absent to everyone but its author and admins.
func (s *PostService) Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownership := authz.Ownership{OwnerID: post.AuthorID, Public: post.Published}
	if d := authz.CanPerform(viewer, authz.ActionRead, ownership); d != authz.Allowed {
		return nil, d.Err(domain.ErrPostNotFound)
	}

	return post, nil
}

// Create stores a new post authored by the viewer. The author id is set
// server-side and never taken from the payload.
func (s *PostService) Create(ctx context.Context, viewer *domain.Identity, input ports.CreatePostInput) (*domain.Post, error) {
	if d := authz.CanPerform(viewer, authz.ActionCreate, authz.Ownership{}); d != authz.Allowed {
		return nil, d.Err(domain.ErrPostNotFound)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		AuthorID:  viewer.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("author_id", viewer.ID).Bool("published", created.Published).Msg("post created")
	return created, nil
}

// Update modifies a post; only the author or an admin may do so.
func (s *PostService) Update(ctx context.Context, viewer *domain.Identity, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownership := authz.Ownership{OwnerID: post.AuthorID, Public: post.Published}
	if d := authz.CanPerform(viewer, authz.ActionUpdate, ownership); d != authz.Allowed {
		return nil, d.Err(domain.ErrPostNotFound)
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	post.UpdatedAt = time.Now().UTC()

	return s.posts.Update(ctx, post)
}

// Delete removes a post; only the author or an admin may do so.
func (s *PostService) Delete(ctx context.Context, viewer *domain.Identity, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ownership := authz.Ownership{OwnerID: post.AuthorID, Public: post.Published}
	if d := authz.CanPerform(viewer, authz.ActionDelete, ownership); d != authz.Allowed {
		return d.Err(domain.ErrPostNotFound)
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
