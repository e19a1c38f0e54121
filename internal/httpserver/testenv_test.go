package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/models"
	"github.com/avolkov/warehouse/internal/repo"
	"github.com/avolkov/warehouse/internal/search"
	"github.com/avolkov/warehouse/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Auth     *AuthHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Sale     *SaleHandler
	Admin    *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductCategory{},
		&models.Transaction{},
		&models.RefreshToken{},
	))

	gormRepo := &repo.GormRepo{DB: db}
	inventorySvc := &service.InventoryService{Repo: gormRepo}
	statsSvc := &service.StatsService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	productSearch := &search.ProductSearch{Repo: gormRepo}

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Auth:     &AuthHandler{Auth: authSvc},
		Product:  &ProductHandler{Svc: inventorySvc, Search: productSearch},
		Category: &CategoryHandler{Svc: inventorySvc},
		Sale:     &SaleHandler{Svc: inventorySvc},
		Admin:    &AdminHandler{Svc: statsSvc},
	}

	Register(env.E, &Deps{
		AuthHandler:     env.Auth,
		ProductHandler:  env.Product,
		CategoryHandler: env.Category,
		SaleHandler:     env.Sale,
		AdminHandler:    env.Admin,
		AuthMW:          &AuthMiddleware{Auth: authSvc},
	})

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// serve runs the request through the full router, middleware included.
func (env *testEnv) serve(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) asSeller(c echo.Context, user *models.User) {
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
	c.Set("sellerName", user.SellerName)
}

func (env *testEnv) registerSeller(t *testing.T, username string) *models.User {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"seller_name": username + " store",
		"username":    username,
		"password":    "secret123",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", username).First(&user).Error)
	return &user
}

func (env *testEnv) loginCookies(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	rec := env.serve(http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}
