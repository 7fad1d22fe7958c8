package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/blogstack/blog-api/internal/api/metrics"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

// identityKey is the single echo context key the resolved identity lives
// under. Downstream stages read it through Viewer; nothing rewrites it.
const identityKey = "auth.identity"

// Viewer returns the identity bound to the request, or nil for an anonymous
// caller.
func Viewer(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// Auth is the authentication gate for protected routes: it extracts the
// bearer token, verifies it through the token service, and binds the
// resolved identity to the request. Missing, malformed, invalid, or expired
// tokens halt the pipeline with 401. No data store is touched on this path.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := resolve(c, tokens)
			if err != nil {
				return err
			}
			if identity == nil {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// OptionalAuth binds an identity when a valid bearer token is present and
// lets anonymous requests through. A token that is present but invalid is
// still rejected; silently downgrading a bad token to anonymous would hide
// client bugs and expired sessions.
func OptionalAuth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := resolve(c, tokens)
			if err != nil {
				return err
			}
			if identity != nil {
				c.Set(identityKey, identity)
			}
			return next(c)
		}
	}
}

// resolve extracts and verifies the bearer token. It returns (nil, nil)
// when no authorization header is present, and an *echo.HTTPError for a
// header that is present but unusable.
func resolve(c echo.Context, tokens ports.TokenService) (*domain.Identity, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		metrics.AuthRejectionsTotal.WithLabelValues("malformed_header").Inc()
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	identity, err := tokens.Verify(parts[1])
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			metrics.AuthRejectionsTotal.WithLabelValues("token_expired").Inc()
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired")
		}
		metrics.AuthRejectionsTotal.WithLabelValues("token_invalid").Inc()
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return &identity, nil
}
