package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogstack/blog-api/internal/api/metrics"
	"github.com/blogstack/blog-api/internal/api/middleware"
	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Content string `json:"content" validate:"required,min=3,max=500"`
}

type commentListResponse struct {
	Data []domain.Comment `json:"data"`
	Meta pageMeta         `json:"meta"`
}

// Get returns one comment; hidden when its parent post is hidden from the
// viewer.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id  path      string  true  "Comment id"
// @Success      200  {object}  domain.Comment
// @Failure      404  {object}  map[string]string
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	comment, err := h.service.Get(c.Request().Context(), middleware.Viewer(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// ListByPost returns a page of a post's comments.
//
// @Summary      List comments on a post
// @Tags         comments
// @Produce      json
// @Param        postId  path      string  true   "Post id"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Success      200     {object}  commentListResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/comments/post/{postId} [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	page, err := h.service.ListByPost(
		c.Request().Context(),
		middleware.Viewer(c),
		c.Param("postId"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 10),
	)
	if err != nil {
		return err
	}

	comments := page.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	return c.JSON(http.StatusOK, commentListResponse{
		Data: comments,
		Meta: pageMeta{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Create stores a new comment on a post the caller can read.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string          true  "Post id"
// @Param        body    body      commentRequest  true  "Comment content"
// @Success      201     {object}  domain.Comment
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/comments/post/{postId} [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Create(c.Request().Context(), middleware.Viewer(c), c.Param("postId"), req.Content)
	if err != nil {
		return err
	}
	metrics.CommentsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, comment)
}

// Update modifies a comment, author or admin only.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Comment id"
// @Param        body  body      commentRequest  true  "Comment content"
// @Success      200   {object}  domain.Comment
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Update(c.Request().Context(), middleware.Viewer(c), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete removes a comment, author or admin only.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.Viewer(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
