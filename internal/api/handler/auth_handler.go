package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogstack/blog-api/internal/api/metrics"
	"github.com/blogstack/blog-api/internal/api/middleware"
	"github.com/blogstack/blog-api/internal/core/authz"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	users       ports.UserRepository
	limiter     ports.LoginLimiter
}

func NewAuthHandler(authService ports.AuthService, users ports.UserRepository, limiter ports.LoginLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, users: users, limiter: limiter}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,min=2,max=50"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new account and returns it with a token.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.Inc()

	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login verifies credentials and returns a token. Failed attempts are
// throttled per username.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if allowed, err := h.limiter.Allow(ctx, req.Username); err == nil && !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}

	token, user, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			_ = h.limiter.RecordFailure(ctx, req.Username)
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	_ = h.limiter.Reset(ctx, req.Username)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the caller's own profile.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		return domain.ErrUnauthenticated
	}

	user, err := h.users.FindByID(c.Request().Context(), viewer.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: authz.ProjectUser(user, viewer)})
}
