package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/service"
)

type AdminHandler struct {
	Svc *service.StatsService
}

// GetProducts lists every seller's products, lowest stock first.
func (h *AdminHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_products")

	items, err := h.Svc.ListAllProducts(ctx)
	if err != nil {
		l.Error("admin_get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) GetTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_transactions")

	items, err := h.Svc.RecentTransactions(ctx)
	if err != nil {
		l.Error("admin_get_transactions_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list transactions")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_stats")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("admin_get_stats_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot compute stats")
	}
	return c.JSON(http.StatusOK, stats)
}
