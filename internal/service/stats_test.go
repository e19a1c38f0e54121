package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/warehouse/internal/repo"
)

func TestStatsEmptyStore(t *testing.T) {
	db := newTestDB(t)
	svc := &StatsService{Repo: &repo.GormRepo{DB: db}}
	ctx := context.Background()

	revenue, err := svc.TotalRevenue(ctx)
	require.NoError(t, err)
	require.Zero(t, revenue)

	sellers, err := svc.SellerCount(ctx)
	require.NoError(t, err)
	require.Zero(t, sellers)

	transactions, err := svc.RecentTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, transactions)
}

func TestStatsAggregateAcrossSellers(t *testing.T) {
	db := newTestDB(t)
	gormRepo := &repo.GormRepo{DB: db}
	inventory := &InventoryService{Repo: gormRepo}
	stats := &StatsService{Repo: gormRepo}
	ctx := context.Background()

	alice := seedSeller(t, db, "alice")
	bob := seedSeller(t, db, "bob")

	milk, err := inventory.CreateProduct(ctx, alice.ID, ProductInput{Name: "Milk", Price: 2.50, Quantity: 10}, nil)
	require.NoError(t, err)
	hammer, err := inventory.CreateProduct(ctx, bob.ID, ProductInput{Name: "Hammer", Price: 15, Quantity: 3}, nil)
	require.NoError(t, err)

	_, err = inventory.RecordSale(ctx, alice.ID, milk.ID, 4) // 10.00
	require.NoError(t, err)
	_, err = inventory.RecordSale(ctx, bob.ID, hammer.ID, 2) // 30.00
	require.NoError(t, err)

	revenue, err := stats.TotalRevenue(ctx)
	require.NoError(t, err)
	require.Equal(t, 40.00, revenue)

	sellers, err := stats.SellerCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), sellers)

	transactions, err := stats.RecentTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	// newest first, joined display names
	require.Equal(t, "Hammer", transactions[0].ProductName)
	require.Equal(t, "bob store", transactions[0].SellerName)
	require.Equal(t, "Milk", transactions[1].ProductName)
	require.Equal(t, "alice store", transactions[1].SellerName)
}

func TestListAllProductsLowStockFirst(t *testing.T) {
	db := newTestDB(t)
	gormRepo := &repo.GormRepo{DB: db}
	inventory := &InventoryService{Repo: gormRepo}
	stats := &StatsService{Repo: gormRepo}
	ctx := context.Background()

	alice := seedSeller(t, db, "alice")
	bob := seedSeller(t, db, "bob")

	_, err := inventory.CreateProduct(ctx, alice.ID, ProductInput{Name: "Plenty", Quantity: 50}, nil)
	require.NoError(t, err)
	_, err = inventory.CreateProduct(ctx, bob.ID, ProductInput{Name: "Scarce", Quantity: 1}, nil)
	require.NoError(t, err)
	_, err = inventory.CreateProduct(ctx, alice.ID, ProductInput{Name: "Gone", Quantity: 0}, nil)
	require.NoError(t, err)

	views, err := stats.ListAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.Equal(t, "Gone", views[0].Name)
	require.Equal(t, "Scarce", views[1].Name)
	require.Equal(t, "Plenty", views[2].Name)
}
