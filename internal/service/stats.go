package service

import (
	"context"

	"github.com/avolkov/warehouse/internal/domain"
	"github.com/avolkov/warehouse/internal/repo"
)

const recentTransactionsLimit = 100

// StatsService serves the admin read-only views across all sellers.
type StatsService struct {
	Repo *repo.GormRepo
}

func (s *StatsService) ListAllProducts(ctx context.Context) ([]domain.ProductView, error) {
	return s.Repo.ListAllProducts(ctx)
}

func (s *StatsService) TotalRevenue(ctx context.Context) (float64, error) {
	return s.Repo.TotalRevenue(ctx)
}

func (s *StatsService) RecentTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	return s.Repo.RecentTransactions(ctx, recentTransactionsLimit)
}

func (s *StatsService) SellerCount(ctx context.Context) (int64, error) {
	return s.Repo.SellerCount(ctx)
}

func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	revenue, err := s.Repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	sellers, err := s.Repo.SellerCount(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{Revenue: revenue, Sellers: sellers}, nil
}
