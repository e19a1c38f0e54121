package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/events"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/service"
	"github.com/avolkov/warehouse/internal/transport"
)

type CategoryHandler struct {
	Svc      *service.InventoryService
	Producer *events.Producer
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	identity := callerIdentity(c)
	categories, err := h.Svc.ListCategories(ctx, identity.UserID)
	if err != nil {
		l.Error("get_categories_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	identity := callerIdentity(c)
	category, err := h.Svc.CreateCategory(ctx, identity.UserID, service.CategoryInput{Name: req.Name, Specs: req.Specs})
	if err != nil {
		httpErr := toHTTPError(err, "cannot add category")
		l.Warn("create_category_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	publish(c, h.Producer, map[string]any{
		"type":       "category_created",
		"userID":     identity.UserID,
		"categoryID": category.ID,
		"name":       category.Name,
	})
	l.Info("create_category_success", "categoryID", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch_category")

	id, err := paramID(c)
	if err != nil {
		l.Warn("patch_category_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	identity := callerIdentity(c)
	category, err := h.Svc.UpdateCategory(ctx, identity.UserID, id, service.CategoryInput{Name: req.Name, Specs: req.Specs})
	if err != nil {
		httpErr := toHTTPError(err, "cannot update category")
		l.Warn("patch_category_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	publish(c, h.Producer, map[string]any{
		"type":       "category_updated",
		"userID":     identity.UserID,
		"categoryID": category.ID,
		"name":       category.Name,
	})
	l.Info("patch_category_success", "categoryID", category.ID)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := paramID(c)
	if err != nil {
		l.Warn("delete_category_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	identity := callerIdentity(c)
	if err := h.Svc.DeleteCategory(ctx, identity.UserID, id); err != nil {
		httpErr := toHTTPError(err, "cannot delete category")
		l.Warn("delete_category_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	publish(c, h.Producer, map[string]any{
		"type":       "category_deleted",
		"userID":     identity.UserID,
		"categoryID": id,
	})
	l.Info("delete_category_success", "categoryID", id)
	return c.NoContent(http.StatusNoContent)
}
