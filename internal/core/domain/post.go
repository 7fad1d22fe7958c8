package domain

import "time"

// Author is the subset of a user embedded in post and comment payloads.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Post is a blog entry. Unpublished posts are visible only to their author
// and to administrators.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Published    bool      `json:"published"`
	AuthorID     string    `json:"author_id"`
	Author       *Author   `json:"author,omitempty"`
	CommentCount int64     `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
