package domain

import "errors"

// Authentication errors. ErrInvalidCredentials deliberately covers both an
// unknown username and a wrong password so callers cannot enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Authorization and resource errors.
var (
	ErrForbidden       = errors.New("access forbidden")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username or email already in use")
	ErrEmailTaken      = errors.New("email already in use")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)
