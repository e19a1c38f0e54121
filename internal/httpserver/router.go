package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	SaleHandler     *SaleHandler
	AdminHandler    *AdminHandler
	AuthMW          *AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	seller := v1.Group("/seller", d.AuthMW.RequireSeller)

	seller.GET("/products", d.ProductHandler.GetProducts)
	seller.GET("/products/search", d.ProductHandler.SearchProducts)
	seller.POST("/products", d.ProductHandler.CreateProduct)
	seller.GET("/products/:id", d.ProductHandler.GetProduct)
	seller.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	seller.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	seller.GET("/categories", d.CategoryHandler.GetCategories)
	seller.POST("/categories", d.CategoryHandler.CreateCategory)
	seller.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	seller.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	seller.GET("/sales", d.SaleHandler.GetSales)
	seller.POST("/sales", d.SaleHandler.RecordSale)

	admin := v1.Group("/admin", d.AuthMW.RequireAdmin)

	admin.GET("/products", d.AdminHandler.GetProducts)
	admin.GET("/transactions", d.AdminHandler.GetTransactions)
	admin.GET("/stats", d.AdminHandler.GetStats)
}
