package service

import (
	"context"
	"fmt"

	"paylink_console/internal/domain/dashboard/model"
	ordermodel "paylink_console/internal/domain/order/model"
	orderrepository "paylink_console/internal/domain/order/repository"
	storeservice "paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/gateway"
)

// DashboardService 指标汇总服务
type DashboardService interface {
	// Summarize 汇总指标，storeID 非空时按店铺过滤，否则全局
	Summarize(ctx context.Context, storeID string) (*model.Metrics, gateway.Source, error)
	// Estimate 在已有汇总上叠加按店铺生效费率推导的估算值
	Estimate(ctx context.Context, storeID string, m *model.Metrics) (*model.Report, error)
	// BuildReport 汇总加估算，一步到位
	BuildReport(ctx context.Context, storeID string) (*model.Report, gateway.Source, error)
}

type dashboardService struct {
	orders orderrepository.OrderRepository
	stores storeservice.StoreService
}

// NewDashboardService 创建指标服务
func NewDashboardService(orders orderrepository.OrderRepository, stores storeservice.StoreService) DashboardService {
	return &dashboardService{orders: orders, stores: stores}
}

// Summarize 重新读取订单集合并就地聚合
// totalRevenue 只累计 completed 订单；conversionRate 固定一位小数，
// 无订单时返回字面量 "0.0" 而不是做除法
func (s *dashboardService) Summarize(ctx context.Context, storeID string) (*model.Metrics, gateway.Source, error) {
	orders, source, err := s.orders.List(ctx, storeID)
	if err != nil {
		return nil, source, err
	}
	return Aggregate(orders), source, nil
}

// Aggregate 对给定订单集合做纯内存聚合，读取方已经完成范围过滤
func Aggregate(orders []ordermodel.Order) *model.Metrics {
	m := &model.Metrics{TotalOrders: len(orders)}

	completed := 0
	for _, o := range orders {
		switch o.Status {
		case ordermodel.StatusCompleted:
			completed++
			m.TotalRevenue += o.Amount
		case ordermodel.StatusPending:
			m.PendingOrders++
		}
	}

	if m.TotalOrders == 0 {
		m.ConversionRate = "0.0"
	} else {
		m.ConversionRate = fmt.Sprintf("%.1f", float64(completed)/float64(m.TotalOrders)*100)
	}
	return m
}

// Estimate 基于已有汇总推导费用估算，不再触发订单读取
// 估算用店铺的生效费率；全局范围（无 storeID）没有统一费率，按 0 处理
func (s *dashboardService) Estimate(ctx context.Context, storeID string, m *model.Metrics) (*model.Report, error) {
	var feePercent, feeFixed float64
	if storeID != "" {
		store, _, err := s.stores.GetStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		feePercent, feeFixed = s.stores.EffectiveFees(store)
	}

	fees := m.TotalRevenue*feePercent/100 + float64(m.TotalOrders)*feeFixed
	return &model.Report{
		Metrics:       *m,
		EstimatedFees: fees,
		EstimatedNet:  m.TotalRevenue - fees,
	}, nil
}

// BuildReport 汇总加费用估算
func (s *dashboardService) BuildReport(ctx context.Context, storeID string) (*model.Report, gateway.Source, error) {
	m, source, err := s.Summarize(ctx, storeID)
	if err != nil {
		return nil, source, err
	}

	report, err := s.Estimate(ctx, storeID, m)
	if err != nil {
		return nil, source, err
	}
	return report, source, nil
}
