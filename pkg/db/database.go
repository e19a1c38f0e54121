package db

import (
	"context"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/hash"
	"github.com/avolkov/warehouse/internal/models"
)

func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductCategory{},
		&models.Transaction{},
		&models.RefreshToken{},
	)
}

// SeedAdmin creates the administrator account on first start. The password
// comes from config, never a hard-coded default.
func SeedAdmin(db *gorm.DB, password string) error {
	if password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	h, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		SellerName:   "Administrator",
		Username:     "admin",
		PasswordHash: h,
		Role:         models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
