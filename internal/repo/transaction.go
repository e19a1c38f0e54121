package repo

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/domain"
	"github.com/avolkov/warehouse/internal/models"
)

// RecordSale decrements stock and appends the ledger row as one atomic unit.
// The decrement is a conditional UPDATE guarded by `quantity >= ?`, so two
// concurrent sales of the same product can never both pass a stale stock
// check: the second writer sees zero rows affected and the transaction rolls
// back with InsufficientStockError.
func (r *GormRepo) RecordSale(ctx context.Context, sellerID, productID uint, quantity int) (*models.Transaction, error) {
	var trx *models.Transaction

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ? AND seller_id = ?", productID, sellerID).First(&product).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND seller_id = ? AND quantity >= ?", productID, sellerID, quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.InsufficientStockError{Available: product.Quantity}
		}

		total := math.Round(product.Price*float64(quantity)*100) / 100
		trx = &models.Transaction{
			SellerID:   sellerID,
			ProductID:  productID,
			Quantity:   quantity,
			Price:      product.Price,
			TotalPrice: total,
			Type:       models.TransactionSale,
		}
		return tx.Create(trx).Error
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

func (r *GormRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *GormRepo) RecentTransactions(ctx context.Context, limit int) ([]domain.TransactionView, error) {
	views := make([]domain.TransactionView, 0, limit)
	err := r.DB.WithContext(ctx).
		Table("transactions").
		Select(`transactions.id, transactions.quantity, transactions.price,
			transactions.total_price, transactions.type, transactions.created_at,
			products.name AS product_name, users.seller_name AS seller_name`).
		Joins("JOIN products ON products.id = transactions.product_id").
		Joins("JOIN users ON users.id = transactions.seller_id").
		Order("transactions.id DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *GormRepo) ListSellerTransactions(ctx context.Context, sellerID uint, limit int) ([]models.Transaction, error) {
	var items []models.Transaction
	err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
