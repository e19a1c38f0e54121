package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/domain"
)

// toHTTPError maps domain errors onto status codes at the service boundary;
// anything unrecognized is a store-level failure and surfaces as 500.
func toHTTPError(err error, fallback string) *echo.HTTPError {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"message":   stockErr.Error(),
			"available": stockErr.Available,
		})
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}

func statusOf(err *echo.HTTPError) int {
	return err.Code
}
