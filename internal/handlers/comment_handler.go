package handlers

import (
	"net/http"

	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetPostComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.POST("/comments/:id/likes", h.LikeComment)
	g.DELETE("/comments/:id/likes", h.UnlikeComment)
	g.POST("/posts/:post_id/comments/:comment_id/accept", h.AcceptAnswer)
}

// CreateComment creates a new comment on a post, optionally as a reply
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), postID, userID, req.Content, req.ParentID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetPostComments retrieves all comments for a specific post
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	comments, err := h.commentService.ListPostComments(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits an existing comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := userIDFromContext(c)
	commentID := c.Param("id")

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.EditComment(c.Request().Context(), commentID, userID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment marks a comment deleted. The document is kept.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := userIDFromContext(c)
	commentID := c.Param("id")

	// Only the comment author may delete through this route
	if _, err := h.commentService.RequireOwnership(c.Request().Context(), commentID, userID); err != nil {
		return toHTTPError(err)
	}

	if err := h.commentService.ModerateComment(c.Request().Context(), commentID, models.CommentStatusDeleted); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReplies lists the direct children of a comment
func (h *CommentHandler) GetReplies(c echo.Context) error {
	replies, err := h.commentService.ListReplies(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, replies)
}

// LikeComment handles liking a comment
func (h *CommentHandler) LikeComment(c echo.Context) error {
	userID := userIDFromContext(c)
	commentID := c.Param("id")

	added, err := h.commentService.LikeComment(c.Request().Context(), commentID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !added {
		return echo.NewHTTPError(http.StatusConflict, "Comment already liked by this user")
	}
	return c.NoContent(http.StatusCreated)
}

// UnlikeComment handles removing a like from a comment
func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	userID := userIDFromContext(c)
	commentID := c.Param("id")

	removed, err := h.commentService.UnlikeComment(c.Request().Context(), commentID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Like not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptAnswer marks a comment as the accepted answer of a question post
func (h *CommentHandler) AcceptAnswer(c echo.Context) error {
	userID := userIDFromContext(c)

	err := h.commentService.AcceptAnswer(c.Request().Context(), c.Param("post_id"), c.Param("comment_id"), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
