package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/blogstack/blog-api/docs"
	"github.com/blogstack/blog-api/internal/api/handler"
	"github.com/blogstack/blog-api/internal/api/middleware"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/service"
	"github.com/blogstack/blog-api/internal/infrastructure/config"
	mongorepo "github.com/blogstack/blog-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/blogstack/blog-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	postRepo := mongorepo.NewPostRepository(db)
	commentRepo := mongorepo.NewCommentRepository(db)

	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost, log)
	postService := service.NewPostService(postRepo, log)
	commentService := service.NewCommentService(commentRepo, postRepo, log)

	limiter := redisinfra.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

	authHandler := handler.NewAuthHandler(authService, userRepo, limiter)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)

	requireAuth := middleware.Auth(tokenService)
	optionalAuth := middleware.OptionalAuth(tokenService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- User routes ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List, requireAuth, adminOnly)
	users.GET("/:id", userHandler.Get, optionalAuth)
	users.GET("/:id/posts", postHandler.ListByAuthor, optionalAuth)
	users.PUT("/:id", userHandler.Update, requireAuth)
	users.DELETE("/:id", userHandler.Delete, requireAuth)

	// --- Post routes ---
	posts := e.Group("/api/posts")
	posts.GET("", postHandler.List, optionalAuth)
	posts.GET("/:id", postHandler.Get, optionalAuth)
	posts.POST("", postHandler.Create, requireAuth)
	posts.PUT("/:id", postHandler.Update, requireAuth)
	posts.DELETE("/:id", postHandler.Delete, requireAuth)

	// --- Comment routes ---
	comments := e.Group("/api/comments")
	comments.GET("/:id", commentHandler.Get, optionalAuth)
	comments.GET("/post/:postId", commentHandler.ListByPost, optionalAuth)
	comments.POST("/post/:postId", commentHandler.Create, requireAuth)
	comments.PUT("/:id", commentHandler.Update, requireAuth)
	comments.DELETE("/:id", commentHandler.Delete, requireAuth)

	// --- Observability and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
