package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/events"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/search"
	"github.com/avolkov/warehouse/internal/service"
	"github.com/avolkov/warehouse/internal/transport"
	"github.com/avolkov/warehouse/internal/util"
)

type ProductHandler struct {
	Svc      *service.InventoryService
	Search   *search.ProductSearch
	Producer *events.Producer
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := paramID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	identity := callerIdentity(c)
	product, err := h.Svc.GetProduct(ctx, identity.UserID, id)
	if err != nil {
		httpErr := toHTTPError(err, "cannot get product")
		l.Warn("get_product_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	identity := callerIdentity(c)
	total, items, err := h.Svc.ListProducts(ctx, identity.UserID, offset, limit)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	expiry, err := parseExpiry(req.Expiry)
	if err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid expiry", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "expiry must be YYYY-MM-DD")
	}

	identity := callerIdentity(c)
	in := service.ProductInput{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Quantity: req.Quantity,
		Expiry:   expiry,
	}
	product, err := h.Svc.CreateProduct(ctx, identity.UserID, in, req.CategoryIDs)
	if err != nil {
		httpErr := toHTTPError(err, "cannot add product")
		l.Warn("create_product_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	h.Search.IndexProduct(ctx, product)
	publish(c, h.Producer, map[string]any{
		"type":      "product_created",
		"userID":    identity.UserID,
		"productID": product.ID,
		"name":      product.Name,
	})
	l.Info("create_product_success", "productID", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := paramID(c)
	if err != nil {
		l.Warn("patch_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	expiry, err := parseExpiry(req.Expiry)
	if err != nil {
		l.Warn("patch_product_failed", "status", 400, "reason", "invalid expiry", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "expiry must be YYYY-MM-DD")
	}

	identity := callerIdentity(c)
	patch := service.ProductPatch{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Quantity: req.Quantity,
		Expiry:   expiry,
	}
	product, err := h.Svc.UpdateProduct(ctx, identity.UserID, id, patch, req.CategoryIDs)
	if err != nil {
		httpErr := toHTTPError(err, "cannot update product")
		l.Warn("patch_product_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	h.Search.IndexProduct(ctx, product)
	publish(c, h.Producer, map[string]any{
		"type":      "product_updated",
		"userID":    identity.UserID,
		"productID": product.ID,
		"name":      product.Name,
	})
	l.Info("patch_product_success", "productID", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := paramID(c)
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	identity := callerIdentity(c)
	if err := h.Svc.DeleteProduct(ctx, identity.UserID, id); err != nil {
		httpErr := toHTTPError(err, "cannot delete product")
		l.Warn("delete_product_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	h.Search.RemoveProduct(ctx, id)
	publish(c, h.Producer, map[string]any{
		"type":      "product_deleted",
		"userID":    identity.UserID,
		"productID": id,
	})
	l.Info("delete_product_success", "productID", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	identity := callerIdentity(c)
	total, items, err := h.Search.Search(ctx, identity.UserID, q, offset, limit)
	if err != nil {
		l.Error("search_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	l.Info("search_products_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
	})
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseExpiry(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
