package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blogstack/blog-api/internal/api/metrics"
	"github.com/blogstack/blog-api/internal/api/middleware"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	Title     string `json:"title" validate:"required,min=5,max=200"`
	Content   string `json:"content" validate:"required,min=10"`
	Published bool   `json:"published"`
}

type updatePostRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=5,max=200"`
	Content   *string `json:"content" validate:"omitempty,min=10"`
	Published *bool   `json:"published"`
}

type pageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type postListResponse struct {
	Data []domain.Post `json:"data"`
	Meta pageMeta      `json:"meta"`
}

// List returns a page of posts. Anonymous and regular viewers only see
// published posts; admins see all and may filter with ?published=.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 10)"
// @Param        title      query     string  false  "Case-insensitive title filter"
// @Param        published  query     bool    false  "Published filter (admin only)"
// @Success      200        {object}  postListResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	input := ports.ListPostsInput{
		Title: c.QueryParam("title"),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 10),
	}
	if raw := c.QueryParam("published"); raw != "" {
		published := raw == "true"
		input.PublishedParam = &published
	}

	page, err := h.service.List(c.Request().Context(), middleware.Viewer(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse(page))
}

// ListByAuthor returns a page of one author's posts.
//
// @Summary      List posts by author
// @Tags         posts
// @Produce      json
// @Param        id     path      string  true   "Author user id"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Page size (default 10)"
// @Success      200    {object}  postListResponse
// @Router       /api/users/{id}/posts [get]
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	input := ports.ListPostsInput{
		AuthorID: c.Param("id"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}

	page, err := h.service.List(c.Request().Context(), middleware.Viewer(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse(page))
}

// Get returns one post with its comments. Unpublished posts are reported
// as absent to everyone but their author and admins.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), middleware.Viewer(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create stores a new post authored by the caller.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), middleware.Viewer(c), ports.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.WithLabelValues(formatBool(post.Published)).Inc()

	return c.JSON(http.StatusCreated, post)
}

// Update modifies a post, author or admin only.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to update"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Update(c.Request().Context(), middleware.Viewer(c), c.Param("id"), ports.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post, author or admin only.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func listResponse(page *ports.PostPage) postListResponse {
	posts := page.Posts
	if posts == nil {
		posts = []domain.Post{}
	}
	return postListResponse{
		Data: posts,
		Meta: pageMeta{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	}
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// formatBool is a tiny helper for metric label values.
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
