package handlers

import (
	"net/http"
	"strconv"

	"github.com/nahid-dev/studyhive/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TrendingHandler serves the trending feed
type TrendingHandler struct {
	trendingService *services.TrendingService
}

// NewTrendingHandler creates a new TrendingHandler
func NewTrendingHandler(trending *services.TrendingService) *TrendingHandler {
	return &TrendingHandler{trendingService: trending}
}

// RegisterTrendingRoutes registers feed-related routes
func (h *TrendingHandler) RegisterTrendingRoutes(g *echo.Group) {
	g.GET("/trending", h.GetTrending)
}

// GetTrending returns the top posts by time-decayed popularity, optionally
// filtered by subject
func (h *TrendingHandler) GetTrending(c echo.Context) error {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	subject := c.QueryParam("subject")

	posts, svcErr := h.trendingService.GetTrending(c.Request().Context(), limit, subject)
	if svcErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, svcErr.Error())
	}
	return c.JSON(http.StatusOK, posts)
}
