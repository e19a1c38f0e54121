package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/models"
)

func (r *GormRepo) GetCategory(ctx context.Context, sellerID, id uint) (*models.Category, error) {
	category := models.Category{}
	if err := r.DB.WithContext(ctx).Where("id = ? AND seller_id = ?", id, sellerID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) ListCategories(ctx context.Context, sellerID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes the category and any join rows pointing at it, so
// product listings never carry links to a category that no longer exists.
func (r *GormRepo) DeleteCategory(ctx context.Context, sellerID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("category_id = ?", id).Delete(&models.ProductCategory{}).Error
	})
}
