package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	dashmodel "paylink_console/internal/domain/dashboard/model"
	ordermodel "paylink_console/internal/domain/order/model"
	storemodel "paylink_console/internal/domain/store/model"
	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUpstreamClient is a mock of upstream.Client
type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) ListStores(ctx context.Context) ([]storemodel.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodel.Store), args.Error(1)
}

func (m *MockUpstreamClient) GetStore(ctx context.Context, id string) (*storemodel.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodel.Store), args.Error(1)
}

func (m *MockUpstreamClient) CreateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodel.Store), args.Error(1)
}

func (m *MockUpstreamClient) UpdateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodel.Store), args.Error(1)
}

func (m *MockUpstreamClient) ListOrders(ctx context.Context, storeID string) ([]ordermodel.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordermodel.Order), args.Error(1)
}

func (m *MockUpstreamClient) GetOrder(ctx context.Context, id string) (*ordermodel.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordermodel.Order), args.Error(1)
}

func (m *MockUpstreamClient) UpsertOrder(ctx context.Context, order *ordermodel.Order) (*ordermodel.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordermodel.Order), args.Error(1)
}

func (m *MockUpstreamClient) UpdateOrderStatus(ctx context.Context, id, status string) (*ordermodel.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordermodel.Order), args.Error(1)
}

func (m *MockUpstreamClient) DashboardMetrics(ctx context.Context, storeID string) (*dashmodel.Metrics, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashmodel.Metrics), args.Error(1)
}

// MockDashboardService is a mock of dashboard service
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summarize(ctx context.Context, storeID string) (*dashmodel.Metrics, gateway.Source, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*dashmodel.Metrics), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockDashboardService) Estimate(ctx context.Context, storeID string, metric *dashmodel.Metrics) (*dashmodel.Report, error) {
	args := m.Called(ctx, storeID, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashmodel.Report), args.Error(1)
}

func (m *MockDashboardService) BuildReport(ctx context.Context, storeID string) (*dashmodel.Report, gateway.Source, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*dashmodel.Report), args.Get(1).(gateway.Source), args.Error(2)
}

func sampleMetrics() *dashmodel.Metrics {
	return &dashmodel.Metrics{TotalOrders: 3, TotalRevenue: 5100, PendingOrders: 1, ConversionRate: "66.7"}
}

func TestRefreshPrefersRemoteAggregate(t *testing.T) {
	api := new(MockUpstreamClient)
	dash := new(MockDashboardService)
	p := NewPoller(api, dash, config.DashboardConfig{PollIntervalSeconds: 30})

	m := sampleMetrics()
	api.On("DashboardMetrics", mock.Anything, "").Return(m, nil)
	dash.On("Estimate", mock.Anything, "", m).
		Return(&dashmodel.Report{Metrics: *m, EstimatedFees: 10, EstimatedNet: 5090}, nil)

	p.refresh(context.Background())

	dash.AssertNotCalled(t, "Summarize")
	dash.AssertExpectations(t)
}

func TestRefreshFallsBackToLocalSummary(t *testing.T) {
	api := new(MockUpstreamClient)
	dash := new(MockDashboardService)
	p := NewPoller(api, dash, config.DashboardConfig{PollIntervalSeconds: 30})

	m := sampleMetrics()
	api.On("DashboardMetrics", mock.Anything, "").Return(nil, errors.New("connection refused"))
	dash.On("Summarize", mock.Anything, "").Return(m, gateway.SourceLocal, nil)
	dash.On("Estimate", mock.Anything, "", m).
		Return(&dashmodel.Report{Metrics: *m}, nil)

	p.refresh(context.Background())

	dash.AssertExpectations(t)
}

func TestRefreshSurvivesTotalOutage(t *testing.T) {
	api := new(MockUpstreamClient)
	dash := new(MockDashboardService)
	p := NewPoller(api, dash, config.DashboardConfig{PollIntervalSeconds: 30})

	api.On("DashboardMetrics", mock.Anything, "").Return(nil, errors.New("connection refused"))
	dash.On("Summarize", mock.Anything, "").Return(nil, gateway.SourceLocal, errors.New("archive corrupted"))

	// 两侧都失败只记日志，不能 panic
	p.refresh(context.Background())

	dash.AssertNotCalled(t, "Estimate")
}

func TestPollerStartStop(t *testing.T) {
	api := new(MockUpstreamClient)
	dash := new(MockDashboardService)
	p := NewPoller(api, dash, config.DashboardConfig{PollIntervalSeconds: 60, StoreID: "s1"})

	refreshed := make(chan struct{}, 1)
	m := sampleMetrics()
	api.On("DashboardMetrics", mock.Anything, "s1").
		Run(func(args mock.Arguments) {
			select {
			case refreshed <- struct{}{}:
			default:
			}
		}).
		Return(m, nil)
	dash.On("Estimate", mock.Anything, "s1", m).Return(&dashmodel.Report{Metrics: *m}, nil)

	p.Start(context.Background())

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not run the startup refresh")
	}

	p.Stop()
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := NewPoller(new(MockUpstreamClient), new(MockDashboardService), config.DashboardConfig{})
	assert.Equal(t, 30*time.Second, p.interval)
}
