package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

type stubPostRepo struct {
	posts      map[string]*domain.Post
	lastFilter ports.PostFilter
	nextID     int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.nextID++
	copy := clonePost(post)
	copy.ID = "p" + string(rune('0'+r.nextID))
	r.posts[copy.ID] = clonePost(copy)
	return copy, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) List(_ context.Context, filter ports.PostFilter) ([]domain.Post, int64, error) {
	r.lastFilter = filter
	var out []domain.Post
	for _, p := range r.posts {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, *clonePost(p))
	}
	return out, int64(len(out)), nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) seed(p domain.Post) {
	r.posts[p.ID] = clonePost(&p)
}

var (
	viewerU1    = &domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	viewerU2    = &domain.Identity{ID: "u2", Username: "bob", Role: domain.RoleUser}
	viewerAdmin = &domain.Identity{ID: "a1", Username: "root", Role: domain.RoleAdmin}
)

func newTestPostService(repo *stubPostRepo) *PostService {
	return NewPostService(repo, zerolog.Nop())
}

func TestPostService_Get_HidesUnpublished(t *testing.T) {
	repo := newStubPostRepo()
	repo.seed(domain.Post{ID: "p1", Title: "draft", AuthorID: "u2", Published: false})
	svc := newTestPostService(repo)

	// u1 reading u2's unpublished post: not found, never forbidden.
	if _, err := svc.Get(context.Background(), viewerU1, "p1"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	// anonymous caller: same.
	if _, err := svc.Get(context.Background(), nil, "p1"); err != domain.ErrPostNotFound {
		t.Fatalf("anonymous: expected ErrPostNotFound, got %v", err)
	}
	// owner and admin see it.
	if _, err := svc.Get(context.Background(), viewerU2, "p1"); err != nil {
		t.Fatalf("owner: unexpected error %v", err)
	}
	if _, err := svc.Get(context.Background(), viewerAdmin, "p1"); err != nil {
		t.Fatalf("admin: unexpected error %v", err)
	}
}

func TestPostService_Get_PublishedIsPublic(t *testing.T) {
	repo := newStubPostRepo()
	repo.seed(domain.Post{ID: "p1", Title: "hello", AuthorID: "u2", Published: true})
	svc := newTestPostService(repo)

	if _, err := svc.Get(context.Background(), viewerU1, "p1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := svc.Get(context.Background(), nil, "p1"); err != nil {
		t.Fatalf("anonymous: unexpected error %v", err)
	}
}

func TestPostService_Create_SetsAuthorServerSide(t *testing.T) {
	repo := newStubPostRepo()
	svc := newTestPostService(repo)

	post, err := svc.Create(context.Background(), viewerU1, ports.CreatePostInput{
		Title: "my post", Content: "some content here", Published: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.AuthorID != "u1" {
		t.Fatalf("expected author u1, got %s", post.AuthorID)
	}
}

func TestPostService_Create_Anonymous(t *testing.T) {
	repo := newStubPostRepo()
	svc := newTestPostService(repo)

	if _, err := svc.Create(context.Background(), nil, ports.CreatePostInput{
		Title: "my post", Content: "some content here",
	}); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("anonymous create must not persist anything")
	}
}

func TestPostService_Update_OwnershipEnforced(t *testing.T) {
	repo := newStubPostRepo()
	repo.seed(domain.Post{ID: "p1", Title: "hello", AuthorID: "u1", Published: true})
	svc := newTestPostService(repo)

	title := "changed"
	if _, err := svc.Update(context.Background(), viewerU2, "p1", ports.UpdatePostInput{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("non-owner update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), viewerU1, "p1", ports.UpdatePostInput{Title: &title}); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if repo.posts["p1"].Title != "changed" {
		t.Fatalf("update not persisted")
	}
	if _, err := svc.Update(context.Background(), viewerAdmin, "p1", ports.UpdatePostInput{Title: &title}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestPostService_Delete_OwnershipEnforced(t *testing.T) {
	repo := newStubPostRepo()
	repo.seed(domain.Post{ID: "p1", AuthorID: "u1", Published: true})
	svc := newTestPostService(repo)

	if err := svc.Delete(context.Background(), viewerU2, "p1"); err != domain.ErrForbidden {
		t.Fatalf("non-owner delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), viewerU1, "p1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("delete not persisted")
	}
}

func TestPostService_List_ViewerScoping(t *testing.T) {
	repo := newStubPostRepo()
	svc := newTestPostService(repo)
	ctx := context.Background()

	// Anonymous: forced published-only filter.
	if _, err := svc.List(ctx, nil, ports.ListPostsInput{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Published == nil || !*repo.lastFilter.Published {
		t.Fatalf("anonymous list must be published-only, got %+v", repo.lastFilter.Published)
	}

	// Regular user: same.
	if _, err := svc.List(ctx, viewerU1, ports.ListPostsInput{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Published == nil || !*repo.lastFilter.Published {
		t.Fatalf("user list must be published-only")
	}

	// Author browsing their own posts: no published constraint.
	if _, err := svc.List(ctx, viewerU1, ports.ListPostsInput{AuthorID: "u1"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Published != nil {
		t.Fatalf("own-author list must not be constrained")
	}

	// Admin: unconstrained by default, honors the explicit filter.
	if _, err := svc.List(ctx, viewerAdmin, ports.ListPostsInput{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Published != nil {
		t.Fatalf("admin list must be unconstrained by default")
	}

	published := false
	if _, err := svc.List(ctx, viewerAdmin, ports.ListPostsInput{PublishedParam: &published}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Published == nil || *repo.lastFilter.Published {
		t.Fatalf("admin published filter not honored")
	}
}

func TestPostService_List_Pagination(t *testing.T) {
	repo := newStubPostRepo()
	svc := newTestPostService(repo)

	page, err := svc.List(context.Background(), nil, ports.ListPostsInput{Page: -3, Limit: 1000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", page.Page)
	}
	if page.Limit != maxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxLimit, page.Limit)
	}
}
