package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/domain"
	"github.com/avolkov/warehouse/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, sellerID, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ? AND seller_id = ?", id, sellerID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product row and one join row per category in a
// single transaction, so a failed link never leaves an orphaned product.
func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return insertLinks(tx, product.ID, categoryIDs)
	})
}

// UpdateProduct saves the product and fully replaces its category links.
func (r *GormRepo) UpdateProduct(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductCategory{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, product.ID, categoryIDs)
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, sellerID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error
	})
}

func (r *GormRepo) CountProductTransactions(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Transaction{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *GormRepo) ListProducts(ctx context.Context, sellerID uint, offset, limit int) (int64, []domain.ProductView, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return 0, nil, err
	}

	views, err := r.attachCategories(ctx, products)
	if err != nil {
		return 0, nil, err
	}
	return total, views, nil
}

// ListAllProducts is the admin view, lowest stock first.
func (r *GormRepo) ListAllProducts(ctx context.Context) ([]domain.ProductView, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Order("quantity ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return r.attachCategories(ctx, products)
}

func (r *GormRepo) attachCategories(ctx context.Context, products []models.Product) ([]domain.ProductView, error) {
	views := make([]domain.ProductView, len(products))
	if len(products) == 0 {
		return views, nil
	}

	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
		views[i] = domain.ProductView{Product: products[i], Categories: []string{}}
	}

	type link struct {
		ProductID uint
		Name      string
	}
	var links []link
	err := r.DB.WithContext(ctx).
		Table("product_categories").
		Select("product_categories.product_id, categories.name").
		Joins("JOIN categories ON categories.id = product_categories.category_id").
		Where("product_categories.product_id IN ?", ids).
		Order("categories.id ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uint][]string, len(links))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.Name)
	}
	for i := range views {
		if names, ok := byProduct[views[i].ID]; ok {
			views[i].Categories = names
		}
	}
	return views, nil
}

// SearchProducts is the store-side fallback when no search cluster is
// configured. Matches name or SKU, case-insensitive.
func (r *GormRepo) SearchProducts(ctx context.Context, sellerID uint, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + q + "%"
	match := "seller_id = ? AND (LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?))"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where(match, sellerID, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where(match, sellerID, pattern, pattern).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func insertLinks(tx *gorm.DB, productID uint, categoryIDs []uint) error {
	for _, cid := range categoryIDs {
		pc := models.ProductCategory{ProductID: productID, CategoryID: cid}
		if err := tx.Create(&pc).Error; err != nil {
			return err
		}
	}
	return nil
}
