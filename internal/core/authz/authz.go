// Package authz holds the authorization decision logic: given the resolved
// caller and the ownership metadata of a target resource, it decides whether
// an action may proceed. Decisions are pure values; translating them into
// HTTP responses is the router layer's job.
package authz

import "github.com/blogstack/blog-api/internal/core/domain"

// Action is the kind of operation being attempted against a resource.
type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionListUsers Action = "list_users"
)

// Decision is the outcome of an authorization check.
type Decision string

const (
	// Allowed lets the request proceed.
	Allowed Decision = "allowed"
	// Forbidden rejects a caller whose identity is known and whose target's
	// existence has already been confirmed.
	Forbidden Decision = "forbidden"
	// NotFound rejects a read of a private resource without confirming that
	// the resource exists.
	NotFound Decision = "not_found"
	// Unauthenticated rejects an anonymous caller attempting an action that
	// requires an identity.
	Unauthenticated Decision = "unauthenticated"
)

// Ownership is the minimal metadata needed to authorize one resource.
// For posts, Public mirrors the published flag; for comments it is inherited
// from the parent post.
type Ownership struct {
	OwnerID string
	Public  bool
}

// CanPerform decides whether viewer may perform action on a resource with
// the given ownership. A nil viewer is an anonymous caller: it can satisfy
// only the public branch of a read.
//
// Reads of private resources fail with NotFound rather than Forbidden so
// that non-owners cannot confirm the resource exists. Updates and deletes
// fail with Forbidden because existence has already been established by the
// time ownership is checked.
func CanPerform(viewer *domain.Identity, action Action, ownership Ownership) Decision {
	switch action {
	case ActionRead:
		if ownership.Public {
			return Allowed
		}
		if viewer != nil && (viewer.IsAdmin() || viewer.ID == ownership.OwnerID) {
			return Allowed
		}
		return NotFound

	case ActionCreate:
		if viewer == nil {
			return Unauthenticated
		}
		return Allowed

	case ActionUpdate, ActionDelete:
		if viewer == nil {
			return Unauthenticated
		}
		if viewer.IsAdmin() || viewer.ID == ownership.OwnerID {
			return Allowed
		}
		return Forbidden

	case ActionListUsers:
		if viewer == nil {
			return Unauthenticated
		}
		if viewer.IsAdmin() {
			return Allowed
		}
		return Forbidden
	}

	return Forbidden
}

// Err maps a non-allowed decision onto the domain error the router layer
// translates to a status code. notFound is the error to use when the
// decision hides the resource (e.g. domain.ErrPostNotFound).
func (d Decision) Err(notFound error) error {
	switch d {
	case Allowed:
		return nil
	case NotFound:
		return notFound
	case Unauthenticated:
		return domain.ErrUnauthenticated
	default:
		return domain.ErrForbidden
	}
}
