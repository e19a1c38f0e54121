package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/hash"
	"github.com/avolkov/warehouse/internal/models"
	"github.com/avolkov/warehouse/internal/repo"
)

// newTestDB opens an in-memory sqlite database. The pool is capped at one
// connection so the database survives for the whole test and concurrent
// transactions serialize the same way row locks do in postgres.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newInventory(t *testing.T) (*InventoryService, *gorm.DB) {
	db := newTestDB(t)
	return &InventoryService{Repo: &repo.GormRepo{DB: db}}, db
}

func seedSeller(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	h, err := hash.HashPassword("secret123")
	require.NoError(t, err)

	user := models.User{
		SellerName:   username + " store",
		Username:     username,
		PasswordHash: h,
		Role:         models.RoleSeller,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, sellerID uint, name string) *models.Category {
	t.Helper()

	category := models.Category{Name: name, SellerID: sellerID}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
