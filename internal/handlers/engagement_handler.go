package handlers

import (
	"net/http"

	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles likes, saves and ratings on posts
type EngagementHandler struct {
	engagementService *services.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engagement *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagement}
}

// RegisterEngagementRoutes registers like/save/rating routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.POST("/posts/:post_id/saves", h.SavePost)
	g.DELETE("/posts/:post_id/saves", h.UnsavePost)
	g.POST("/posts/:post_id/ratings", h.RatePost)
}

// LikePost handles liking a post
func (h *EngagementHandler) LikePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	added, err := h.engagementService.LikePost(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !added {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}
	return c.NoContent(http.StatusCreated)
}

// UnlikePost handles unliking a post
func (h *EngagementHandler) UnlikePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	removed, err := h.engagementService.UnlikePost(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Like not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SavePost handles bookmarking a post
func (h *EngagementHandler) SavePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	added, err := h.engagementService.SavePost(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !added {
		return echo.NewHTTPError(http.StatusConflict, "Post already saved by this user")
	}
	return c.NoContent(http.StatusCreated)
}

// UnsavePost handles removing a bookmark
func (h *EngagementHandler) UnsavePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	removed, err := h.engagementService.UnsavePost(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Save not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// RatePost records a 1-5 rating and returns the resulting average/count
func (h *EngagementHandler) RatePost(c echo.Context) error {
	userID := userIDFromContext(c)
	postID := c.Param("post_id")

	var req models.AddRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.engagementService.AddRating(c.Request().Context(), postID, userID, req.Value)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}
