package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by username
	err   error                  // forced error, when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	for name, u := range r.users {
		if u.ID == user.ID {
			r.users[name] = cloneUser(user)
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func newTestAuthService(repo ports.UserRepository) (*AuthService, *TokenService) {
	tokens := NewTokenService(testSecret, time.Hour)
	return NewAuthService(repo, tokens, bcrypt.MinCost), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	user, token, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || token == "" {
		t.Fatalf("expected user and token, got %+v / %q", user, token)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}

	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.ID != user.ID || identity.Role != domain.RoleUser {
		t.Fatalf("token identity mismatch: %+v", identity)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// same username
	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "other@example.com", Password: "pass123",
	}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for username, got %v", err)
	}

	// same email
	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "robert", Email: "bob@example.com", Password: "pass123",
	}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for email, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	created, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.ID != created.ID || identity.Role != created.Role {
		t.Fatalf("identity mismatch: got %+v", identity)
	}
}

// An unknown username and a wrong password must be indistinguishable.
func TestAuthService_Login_Indistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "goodpass",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "dave", "badpass")
	_, _, unknownUser := svc.Login(context.Background(), "ghost", "badpass")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPass != unknownUser {
		t.Fatalf("rejections differ: %v vs %v", wrongPass, unknownUser)
	}
}

func TestAuthService_Login_StorageErrorPropagates(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = context.DeadlineExceeded
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Login(context.Background(), "anyone", "pass"); err != context.DeadlineExceeded {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

// The password hash must never appear in a serialized user.
func TestUser_PasswordNeverSerialized(t *testing.T) {
	user := domain.User{
		ID: "u1", Username: "alice", Email: "a@example.com",
		PasswordHash: "$2a$10$secret", Role: domain.RoleUser,
	}
	b, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") || strings.Contains(string(b), "password") {
		t.Fatalf("serialized user leaks password material: %s", b)
	}
}
