package handlers

import (
	"net/http"
	"strconv"

	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/repositories"
	"github.com/nahid-dev/studyhive/backend/internal/services"
	"github.com/nahid-dev/studyhive/backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	engagementService *services.EngagementService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, engagement *services.EngagementService) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		engagementService: engagement,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/view", h.ViewPost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := userIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Subject:  req.Subject,
		PostType: req.PostType,
		Status:   models.PostStatusPublished,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Post creation side effect on the author's aggregate stats. The post
	// itself is already persisted, so a failed counter update is logged
	// rather than surfaced.
	if err := h.userRepository.IncrementPostsCount(userID); err != nil {
		logger.L().Warnw("failed to increment author posts count", "user_id", userID, "error", err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves posts by author with pagination
func (h *PostHandler) GetPosts(c echo.Context) error {
	authorID, _ := strconv.ParseUint(c.QueryParam("author_id"), 10, 32)
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit == 0 {
		limit = 10 // Default limit
	}

	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), uint(authorID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}

	// Ensure the user updating the post is the owner
	if existingPost.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	if req.Title != "" {
		existingPost.Title = req.Title
	}
	if req.Content != "" {
		existingPost.Content = req.Content
	}
	if req.Subject != "" {
		existingPost.Subject = req.Subject
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, existingPost); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, existingPost)
}

// DeletePost marks a post deleted. The document is kept; deletion is a
// status change.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("id")

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}

	if existingPost.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.SetStatus(c.Request().Context(), postID, models.PostStatusDeleted); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ViewPost records a view of a post
func (h *PostHandler) ViewPost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("id")

	if err := h.engagementService.IncrementView(c.Request().Context(), postID, userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
