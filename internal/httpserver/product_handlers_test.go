package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/warehouse/internal/models"
)

func TestCreateProductHandler(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	body := map[string]any{
		"name":     "Milk",
		"sku":      "MLK-001",
		"price":    2.5,
		"quantity": 20,
		"expiry":   "2027-01-31",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/seller/products", body)
	env.asSeller(c, seller)
	require.NoError(t, env.Product.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Milk", resp.Name)
	require.Equal(t, seller.ID, resp.SellerID)
	require.NotNil(t, resp.Expiry)
}

func TestCreateProductHandlerRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/seller/products", map[string]any{"name": "  "})
	env.asSeller(c, seller)

	err := env.Product.CreateProduct(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestCreateProductHandlerRejectsBadExpiry(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/seller/products", map[string]any{
		"name":   "Milk",
		"expiry": "31/01/2027",
	})
	env.asSeller(c, seller)

	err := env.Product.CreateProduct(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestGetProductsHandlerScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerSeller(t, "alice")
	bob := env.registerSeller(t, "bob")

	env.DB.Create(&models.Product{Name: "Milk", SellerID: alice.ID})
	env.DB.Create(&models.Product{Name: "Hammer", SellerID: bob.ID})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/seller/products", nil)
	env.asSeller(c, alice)
	require.NoError(t, env.Product.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Milk", resp.Data[0].Name)
}

func TestDeleteProductHandlerConflict(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	product := models.Product{Name: "Milk", Price: 2, Quantity: 10, SellerID: seller.ID}
	env.DB.Create(&product)
	env.DB.Create(&models.Transaction{
		SellerID: seller.ID, ProductID: product.ID,
		Quantity: 1, Price: 2, TotalPrice: 2, Type: models.TransactionSale,
	})

	_, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/seller/products/%d", product.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ID))
	env.asSeller(c, seller)

	err := env.Product.DeleteProduct(c)
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, err.(*echo.HTTPError).Code)
}

func TestRecordSaleHandler(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	product := models.Product{Name: "Milk", Price: 10, Quantity: 5, SellerID: seller.ID}
	env.DB.Create(&product)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/seller/sales", map[string]any{
		"product_id": product.ID,
		"quantity":   3,
	})
	env.asSeller(c, seller)
	require.NoError(t, env.Sale.RecordSale(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var trx models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trx))
	require.Equal(t, 30.00, trx.TotalPrice)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, product.ID).Error)
	require.Equal(t, 2, stored.Quantity)
}

func TestRecordSaleHandlerInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	product := models.Product{Name: "Milk", Price: 10, Quantity: 2, SellerID: seller.ID}
	env.DB.Create(&product)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/seller/sales", map[string]any{
		"product_id": product.ID,
		"quantity":   3,
	})
	env.asSeller(c, seller)

	err := env.Sale.RecordSale(c)
	require.Error(t, err)
	httpErr := err.(*echo.HTTPError)
	require.Equal(t, http.StatusConflict, httpErr.Code)

	payload, ok := httpErr.Message.(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2, payload["available"])
}

func TestSearchProductsHandlerFallback(t *testing.T) {
	env := newTestEnv(t)
	seller := env.registerSeller(t, "alice")

	env.DB.Create(&models.Product{Name: "Whole Milk", SellerID: seller.ID})
	env.DB.Create(&models.Product{Name: "Hammer", SellerID: seller.ID})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/seller/products/search?q=milk", nil)
	env.asSeller(c, seller)
	require.NoError(t, env.Product.SearchProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data  []models.Product `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	require.Equal(t, "Whole Milk", resp.Data[0].Name)
}
