package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/status"
)

// dashboardSampleSize es el maximo de pedidos que se leen para las stats.
const dashboardSampleSize = 1000

// OrdersAPI es la parte de la API de datos que usa el dashboard.
type OrdersAPI interface {
	ListOrders(ctx context.Context, token string, f domain.OrderFilters) ([]domain.Order, domain.Pagination, error)
}

type DashboardService struct {
	logger   *zap.Logger
	orders   OrdersAPI
	resolver *status.Resolver
}

func NewDashboardService(logger *zap.Logger, orders OrdersAPI, resolver *status.Resolver) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = status.Default()
	}
	return &DashboardService{logger: logger, orders: orders, resolver: resolver}
}

// Stats agrega los pedidos visibles con el token del cliente.
func (s *DashboardService) Stats(ctx context.Context, token string) (domain.DashboardStats, error) {
	orders, _, err := s.orders.ListOrders(ctx, token, domain.OrderFilters{PerPage: dashboardSampleSize})
	if err != nil {
		s.logger.Warn("dashboard stats: list orders failed", zap.Error(err))
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return ComputeStats(orders), nil
}

// ComputeStats cuenta pedidos por estado. Los cambios porcentuales quedan
// en cero: el backend no expone el periodo anterior.
func ComputeStats(orders []domain.Order) domain.DashboardStats {
	var stats domain.DashboardStats
	for _, o := range orders {
		stats.TotalRevenue += o.Amount
		switch o.Status {
		case "active", "in_progress":
			stats.ActiveOrders++
		case "completed":
			stats.CompletedOrders++
		case "pending", "draft":
			stats.PendingOrders++
		}
	}
	return stats
}

// DecorateOrders adjunta el badge de estado a cada pedido.
func (s *DashboardService) DecorateOrders(orders []domain.Order) []domain.OrderWithBadge {
	out := make([]domain.OrderWithBadge, 0, len(orders))
	for _, o := range orders {
		out = append(out, s.DecorateOrder(o))
	}
	return out
}

func (s *DashboardService) DecorateOrder(o domain.Order) domain.OrderWithBadge {
	return domain.OrderWithBadge{Order: o, Badge: s.resolver.Badge(o.StatusKey())}
}
