package handlers

import (
	"net/http"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// userIDFromContext extracts the authenticated user ID put there by the JWT
// middleware. Returns 0 when the request is unauthenticated.
func userIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// toHTTPError maps core error kinds onto HTTP statuses:
// ValidationError -> 400, ErrNotFound -> 404, InvalidStateError -> 409.
func toHTTPError(err error) error {
	switch {
	case apperrors.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.IsInvalidState(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
