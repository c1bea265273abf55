package service

import (
	"context"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
)

// DashboardStats are the admin dashboard headline numbers. Monetary values
// are USD cents.
type DashboardStats struct {
	TotalRevenue      int64 `json:"total_revenue"`
	TotalOrders       int   `json:"total_orders"`
	TotalProducts     int   `json:"total_products"`
	TotalCustomers    int   `json:"total_customers"`
	AverageOrderValue int64 `json:"average_order_value"`
}

// AnalyticsService derives dashboard numbers from the stored collections
type AnalyticsService struct {
	store *store.Store
}

func NewAnalyticsService(st *store.Store) *AnalyticsService {
	return &AnalyticsService{store: st}
}

// Stats computes the dashboard numbers
func (s *AnalyticsService) Stats(ctx context.Context) (*DashboardStats, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalOrders:   len(orders),
		TotalProducts: len(products),
	}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
	}
	for _, u := range users {
		if u.Role != models.RoleAdmin {
			stats.TotalCustomers++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / int64(stats.TotalOrders)
	}
	return stats, nil
}
