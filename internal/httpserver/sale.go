package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/events"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/service"
	"github.com/avolkov/warehouse/internal/transport"
	"github.com/avolkov/warehouse/internal/util"
)

const sellerSalesLimit = 100

type SaleHandler struct {
	Svc      *service.InventoryService
	Producer *events.Producer
}

func (h *SaleHandler) RecordSale(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sale.record_sale")

	var req transport.RecordSaleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("record_sale_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	identity := callerIdentity(c)
	trx, err := h.Svc.RecordSale(ctx, identity.UserID, req.ProductID, req.Quantity)
	if err != nil {
		httpErr := toHTTPError(err, "cannot record sale")
		l.Warn("record_sale_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	publish(c, h.Producer, map[string]any{
		"type":      "sale_recorded",
		"userID":    identity.UserID,
		"productID": trx.ProductID,
		"quantity":  trx.Quantity,
		"total":     trx.TotalPrice,
	})
	l.Info("record_sale_success", "transactionID", trx.ID, "total", trx.TotalPrice)
	return c.JSON(http.StatusCreated, trx)
}

func (h *SaleHandler) GetSales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sale.get_sales")

	limit := util.ParseIntDefault(c.QueryParam("limit"), sellerSalesLimit)
	if limit <= 0 || limit > sellerSalesLimit {
		limit = sellerSalesLimit
	}

	identity := callerIdentity(c)
	items, err := h.Svc.ListSales(ctx, identity.UserID, limit)
	if err != nil {
		l.Error("get_sales_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list sales")
	}
	return c.JSON(http.StatusOK, items)
}
