package service

import (
	"context"
	"time"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	sales      repository.SaleRepository
	items      repository.ItemRepository
	deliveries repository.DeliveryRepository
	purchases  repository.PurchaseRepository
	threshold  int
	now        func() time.Time
}

func NewDashboardService(
	sales repository.SaleRepository,
	items repository.ItemRepository,
	deliveries repository.DeliveryRepository,
	purchases repository.PurchaseRepository,
	lowStockThreshold int,
) DashboardService {
	return &dashboardService{
		sales:      sales,
		items:      items,
		deliveries: deliveries,
		purchases:  purchases,
		threshold:  lowStockThreshold,
		now:        time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	from := startOfDay(s.now())
	count, total, err := s.sales.Totals(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, apierror.Store(err, "sum today's sales")
	}
	onHand, err := s.items.SumQuantity(ctx)
	if err != nil {
		return nil, apierror.Store(err, "sum stock")
	}
	low, err := s.items.CountLowStock(ctx, s.threshold)
	if err != nil {
		return nil, apierror.Store(err, "count low stock")
	}
	pendingDeliveries, err := s.deliveries.CountByStatus(ctx, model.DeliveryNotDelivered)
	if err != nil {
		return nil, apierror.Store(err, "count pending deliveries")
	}
	pendingPurchases, err := s.purchases.CountByStatus(ctx, model.PurchasePending)
	if err != nil {
		return nil, apierror.Store(err, "count pending purchases")
	}
	return &dto.DashboardResponse{
		SalesToday:        total.StringFixed(2),
		SalesTodayCount:   count,
		ItemsOnHand:       onHand,
		LowStockCount:     low,
		PendingDeliveries: pendingDeliveries,
		PendingPurchases:  pendingPurchases,
	}, nil
}
