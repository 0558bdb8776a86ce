package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"shopfront/internal/models"
)

type DashboardSources struct {
	Products  interface{ Count(ctx context.Context) (int, error) }
	Customers interface {
		CountByRole(ctx context.Context, role models.UserRole) (int, error)
	}
	Orders  interface{ Totals(ctx context.Context) (int, int64, error) }
	Returns interface {
		CountByStatus(ctx context.Context, status models.ReturnStatus) (int, error)
	}
	LowStock interface {
		LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	}
}

type DashboardService struct {
	src       DashboardSources
	threshold int
}

func NewDashboardService(src DashboardSources, lowStockThreshold int) *DashboardService {
	return &DashboardService{src: src, threshold: lowStockThreshold}
}

// Stats runs the counting queries concurrently.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Products, err = s.src.Products.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Customers, err = s.src.Customers.CountByRole(ctx, models.UserRoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		stats.Orders, stats.RevenueCents, err = s.src.Orders.Totals(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingReturns, err = s.src.Returns.CountByStatus(ctx, models.ReturnRequested)
		return err
	})
	g.Go(func() error {
		low, err := s.src.LowStock.LowStock(ctx, s.threshold)
		stats.LowStock = len(low)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
