package authz

import "github.com/blogstack/blog-api/internal/core/domain"

// ProjectUser returns the view of u that viewer may see. The password hash
// never leaves the core regardless of viewer (the struct already hides it
// from JSON; the copy here drops it from the value as well). Email is
// visible only to the account owner and to administrators.
func ProjectUser(u *domain.User, viewer *domain.Identity) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	if viewer == nil || (viewer.ID != u.ID && !viewer.IsAdmin()) {
		out.Email = ""
	}
	return &out
}

// ProjectUsers applies ProjectUser to each element.
func ProjectUsers(users []domain.User, viewer *domain.Identity) []domain.User {
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *ProjectUser(&users[i], viewer)
	}
	return out
}
