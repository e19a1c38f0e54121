package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/domain"
	"github.com/avolkov/warehouse/internal/models"
	"github.com/avolkov/warehouse/internal/repo"
)

type InventoryService struct {
	Repo *repo.GormRepo
}

type ProductInput struct {
	Name     string
	SKU      *string
	Price    float64
	Quantity int
	Expiry   *time.Time
}

type ProductPatch struct {
	Name     *string
	SKU      *string
	Price    *float64
	Quantity *int
	Expiry   *time.Time
}

type CategoryInput struct {
	Name  string
	Specs string
}

func (s *InventoryService) CreateProduct(ctx context.Context, sellerID uint, in ProductInput, categoryIDs []uint) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}
	if err := s.checkCategoryOwnership(ctx, sellerID, categoryIDs); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     strings.TrimSpace(in.Name),
		SKU:      normalizeSKU(in.SKU),
		Price:    in.Price,
		Quantity: in.Quantity,
		Expiry:   in.Expiry,
		SellerID: sellerID,
	}
	if err := s.Repo.CreateProduct(ctx, product, categoryIDs); err != nil {
		return nil, translateStoreError(err)
	}
	return product, nil
}

// UpdateProduct mutates only rows owned by the caller; a product belonging to
// another seller surfaces as ErrNotFound, never as a silent no-op. Category
// links are fully replaced by the given set.
func (s *InventoryService) UpdateProduct(ctx context.Context, sellerID, id uint, patch ProductPatch, categoryIDs []uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, sellerID, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: product name is required", domain.ErrValidation)
		}
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.SKU != nil {
		product.SKU = normalizeSKU(patch.SKU)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
		}
		product.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
		}
		product.Quantity = *patch.Quantity
	}
	if patch.Expiry != nil {
		product.Expiry = patch.Expiry
	}

	if err := s.checkCategoryOwnership(ctx, sellerID, categoryIDs); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateProduct(ctx, product, categoryIDs); err != nil {
		return nil, translateStoreError(err)
	}
	return product, nil
}

// DeleteProduct refuses to remove a product the ledger still references.
func (s *InventoryService) DeleteProduct(ctx context.Context, sellerID, id uint) error {
	if _, err := s.Repo.GetProduct(ctx, sellerID, id); err != nil {
		return translateStoreError(err)
	}

	count, err := s.Repo.CountProductTransactions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: product is referenced by %d transaction(s)", domain.ErrConflict, count)
	}

	return translateStoreError(s.Repo.DeleteProduct(ctx, sellerID, id))
}

func (s *InventoryService) GetProduct(ctx context.Context, sellerID, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, sellerID, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return product, nil
}

func (s *InventoryService) ListProducts(ctx context.Context, sellerID uint, offset, limit int) (int64, []domain.ProductView, error) {
	return s.Repo.ListProducts(ctx, sellerID, offset, limit)
}

// RecordSale runs the sale workflow: validate quantity, load the product
// scoped to the seller, then decrement stock and append the ledger row
// atomically. The unit price is frozen at this moment.
func (s *InventoryService) RecordSale(ctx context.Context, sellerID, productID uint, quantity int) (*models.Transaction, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	trx, err := s.Repo.RecordSale(ctx, sellerID, productID, quantity)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return trx, nil
}

func (s *InventoryService) ListSales(ctx context.Context, sellerID uint, limit int) ([]models.Transaction, error) {
	return s.Repo.ListSellerTransactions(ctx, sellerID, limit)
}

func (s *InventoryService) CreateCategory(ctx context.Context, sellerID uint, in CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	category := &models.Category{
		Name:     strings.TrimSpace(in.Name),
		Specs:    in.Specs,
		SellerID: sellerID,
	}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, translateStoreError(err)
	}
	return category, nil
}

func (s *InventoryService) UpdateCategory(ctx context.Context, sellerID, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, sellerID, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	category.Name = strings.TrimSpace(in.Name)
	category.Specs = in.Specs
	if err := s.Repo.UpdateCategory(ctx, category); err != nil {
		return nil, translateStoreError(err)
	}
	return category, nil
}

func (s *InventoryService) DeleteCategory(ctx context.Context, sellerID, id uint) error {
	return translateStoreError(s.Repo.DeleteCategory(ctx, sellerID, id))
}

func (s *InventoryService) ListCategories(ctx context.Context, sellerID uint) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, sellerID)
}

func (s *InventoryService) checkCategoryOwnership(ctx context.Context, sellerID uint, categoryIDs []uint) error {
	for _, cid := range categoryIDs {
		if _, err := s.Repo.GetCategory(ctx, sellerID, cid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown category %d", domain.ErrValidation, cid)
			}
			return err
		}
	}
	return nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: no such record", domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", domain.ErrConflict)
	}
	return err
}
