package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

func seededUserRepo(t *testing.T) *stubUserRepo {
	t.Helper()
	repo := newStubUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.users["alice"] = &domain.User{
		ID: "u1", Username: "alice", Email: "alice@example.com",
		PasswordHash: string(hash), Role: domain.RoleUser,
	}
	repo.users["bob"] = &domain.User{
		ID: "u2", Username: "bob", Email: "bob@example.com",
		PasswordHash: string(hash), Role: domain.RoleUser,
	}
	return repo
}

func newTestUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, bcrypt.MinCost, zerolog.Nop())
}

func TestUserService_List_AdminOnly(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, viewerU1); err != domain.ErrForbidden {
		t.Fatalf("user listing: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.List(ctx, nil); err != domain.ErrUnauthenticated {
		t.Fatalf("anonymous listing: expected ErrUnauthenticated, got %v", err)
	}

	users, err := svc.List(ctx, viewerAdmin)
	if err != nil {
		t.Fatalf("admin listing failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked in listing")
		}
		if u.Email == "" {
			t.Fatalf("admin should see emails")
		}
	}
}

func TestUserService_Get_ProjectsEmail(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)
	ctx := context.Background()

	// Third party and anonymous viewers do not see the email.
	got, err := svc.Get(ctx, viewerU2, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "" {
		t.Fatalf("third party should not see email, got %q", got.Email)
	}

	got, err = svc.Get(ctx, nil, "u1")
	if err != nil {
		t.Fatalf("anonymous get failed: %v", err)
	}
	if got.Email != "" {
		t.Fatalf("anonymous should not see email")
	}

	// Self and admin do.
	got, err = svc.Get(ctx, viewerU1, "u1")
	if err != nil {
		t.Fatalf("self get failed: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("self should see email, got %q", got.Email)
	}

	if _, err := svc.Get(ctx, nil, "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_SelfOrAdmin(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)
	ctx := context.Background()

	bio := "hello"
	if _, err := svc.Update(ctx, viewerU2, "u1", ports.UpdateUserInput{Bio: &bio}); err != domain.ErrForbidden {
		t.Fatalf("other user update: expected ErrForbidden, got %v", err)
	}

	got, err := svc.Update(ctx, viewerU1, "u1", ports.UpdateUserInput{Bio: &bio})
	if err != nil {
		t.Fatalf("self update failed: %v", err)
	}
	if got.Bio != "hello" {
		t.Fatalf("bio not updated: %+v", got)
	}

	if _, err := svc.Update(ctx, viewerAdmin, "u2", ports.UpdateUserInput{Bio: &bio}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)

	email := "bob@example.com"
	if _, err := svc.Update(context.Background(), viewerU1, "u1", ports.UpdateUserInput{Email: &email}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)

	password := "newpass123"
	if _, err := svc.Update(context.Background(), viewerU1, "u1", ports.UpdateUserInput{Password: &password}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored := repo.users["alice"]
	if stored.PasswordHash == password {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}

func TestUserService_Delete_SelfOrAdmin(t *testing.T) {
	repo := seededUserRepo(t)
	svc := newTestUserService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, viewerU2, "u1"); err != domain.ErrForbidden {
		t.Fatalf("other user delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, viewerU1, "u1"); err != nil {
		t.Fatalf("self delete failed: %v", err)
	}
	if err := svc.Delete(ctx, viewerAdmin, "u2"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("deletes not persisted")
	}
}
