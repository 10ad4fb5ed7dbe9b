package service

import (
	"context"
	"errors"
	"testing"

	ordermodel "paylink_console/internal/domain/order/model"
	storemodel "paylink_console/internal/domain/store/model"
	"paylink_console/internal/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock of order repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, storeID string) ([]ordermodel.Order, gateway.Source, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).([]ordermodel.Order), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*ordermodel.Order, gateway.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*ordermodel.Order), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockOrderRepository) Upsert(ctx context.Context, order *ordermodel.Order) (*ordermodel.Order, gateway.Source, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*ordermodel.Order), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id, status string) (*ordermodel.Order, gateway.Source, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*ordermodel.Order), args.Get(1).(gateway.Source), args.Error(2)
}

// MockStoreService is a mock of store service used for fee resolution
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) ListStores(ctx context.Context) ([]storemodel.Store, gateway.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).([]storemodel.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) GetStore(ctx context.Context, id string) (*storemodel.Store, gateway.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*storemodel.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) CreateStore(ctx context.Context, name, description, apiKey string, feePercent, feeFixed *float64) (*storemodel.Store, gateway.Source, error) {
	args := m.Called(ctx, name, description, apiKey, feePercent, feeFixed)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*storemodel.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) UpdateStore(ctx context.Context, id, apiKey string, feePercent, feeFixed *float64) (*storemodel.Store, gateway.Source, error) {
	args := m.Called(ctx, id, apiKey, feePercent, feeFixed)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*storemodel.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) EffectiveAPIKey(store *storemodel.Store) string {
	args := m.Called(store)
	return args.String(0)
}

func (m *MockStoreService) EffectiveFees(store *storemodel.Store) (float64, float64) {
	args := m.Called(store)
	return args.Get(0).(float64), args.Get(1).(float64)
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("Zero orders yields the zero report", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		svc := NewDashboardService(mockOrders, new(MockStoreService))

		mockOrders.On("List", ctx, "").Return([]ordermodel.Order{}, gateway.SourceRemote, nil)

		m, _, err := svc.Summarize(ctx, "")

		assert.NoError(t, err)
		assert.Equal(t, 0, m.TotalOrders)
		assert.Equal(t, 0.0, m.TotalRevenue)
		assert.Equal(t, 0, m.PendingOrders)
		assert.Equal(t, "0.0", m.ConversionRate)
	})

	t.Run("Revenue counts completed orders only", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		svc := NewDashboardService(mockOrders, new(MockStoreService))

		mockOrders.On("List", ctx, "").Return([]ordermodel.Order{
			{Amount: 100, Status: ordermodel.StatusCompleted},
			{Amount: 20, Status: ordermodel.StatusPending},
			{Amount: 5000, Status: ordermodel.StatusCompleted},
		}, gateway.SourceRemote, nil)

		m, source, err := svc.Summarize(ctx, "")

		assert.NoError(t, err)
		assert.Equal(t, gateway.SourceRemote, source)
		assert.Equal(t, 3, m.TotalOrders)
		assert.Equal(t, 5100.0, m.TotalRevenue)
		assert.Equal(t, 1, m.PendingOrders)
		assert.Equal(t, "66.7", m.ConversionRate)
	})

	t.Run("Terminal non-completed statuses add no revenue", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		svc := NewDashboardService(mockOrders, new(MockStoreService))

		mockOrders.On("List", ctx, "").Return([]ordermodel.Order{
			{Amount: 100, Status: ordermodel.StatusExpired},
			{Amount: 200, Status: ordermodel.StatusCancelled},
			{Amount: 300, Status: ordermodel.StatusRefunded},
			{Amount: 400, Status: ordermodel.StatusCompleted},
		}, gateway.SourceRemote, nil)

		m, _, err := svc.Summarize(ctx, "")

		assert.NoError(t, err)
		assert.Equal(t, 4, m.TotalOrders)
		assert.Equal(t, 400.0, m.TotalRevenue)
		assert.Equal(t, 0, m.PendingOrders)
		assert.Equal(t, "25.0", m.ConversionRate)
	})

	t.Run("Store scope is forwarded to the list", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		svc := NewDashboardService(mockOrders, new(MockStoreService))

		mockOrders.On("List", ctx, "s1").Return([]ordermodel.Order{
			{Amount: 50, Status: ordermodel.StatusCompleted, StoreID: "s1"},
		}, gateway.SourceLocal, nil)

		m, source, err := svc.Summarize(ctx, "s1")

		assert.NoError(t, err)
		assert.Equal(t, gateway.SourceLocal, source)
		assert.Equal(t, 1, m.TotalOrders)
		assert.Equal(t, "100.0", m.ConversionRate)
		mockOrders.AssertExpectations(t)
	})

	t.Run("List failure surfaces", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		svc := NewDashboardService(mockOrders, new(MockStoreService))

		mockOrders.On("List", ctx, "").Return(nil, gateway.SourceLocal, errors.New("archive corrupted"))

		_, _, err := svc.Summarize(ctx, "")
		assert.Error(t, err)
	})
}

func TestAggregateIsSourceAgnostic(t *testing.T) {
	// 同一批订单无论来自远端还是本地副本，聚合结果必须一致
	orders := []ordermodel.Order{
		{Amount: 100, Status: ordermodel.StatusCompleted},
		{Amount: 20, Status: ordermodel.StatusPending},
		{Amount: 5000, Status: ordermodel.StatusCompleted},
	}

	remote := Aggregate(orders)
	local := Aggregate(orders)

	assert.Equal(t, remote, local)
	assert.Equal(t, "66.7", remote.ConversionRate)
}

func TestBuildReport(t *testing.T) {
	ctx := context.Background()

	t.Run("Store scope applies effective fees", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockStores := new(MockStoreService)
		svc := NewDashboardService(mockOrders, mockStores)

		mockOrders.On("List", ctx, "s1").Return([]ordermodel.Order{
			{Amount: 100, Status: ordermodel.StatusCompleted, StoreID: "s1"},
			{Amount: 200, Status: ordermodel.StatusCompleted, StoreID: "s1"},
		}, gateway.SourceRemote, nil)
		store := &storemodel.Store{ID: "s1", Name: "Coffee Corner"}
		mockStores.On("GetStore", ctx, "s1").Return(store, gateway.SourceRemote, nil)
		mockStores.On("EffectiveFees", store).Return(2.0, 0.5)

		report, _, err := svc.BuildReport(ctx, "s1")

		assert.NoError(t, err)
		// fees = 300*2/100 + 2*0.5 = 7, net = 293
		assert.Equal(t, 7.0, report.EstimatedFees)
		assert.Equal(t, 293.0, report.EstimatedNet)
		assert.Equal(t, 300.0, report.TotalRevenue)
	})

	t.Run("Global scope estimates with zero fee settings", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockStores := new(MockStoreService)
		svc := NewDashboardService(mockOrders, mockStores)

		mockOrders.On("List", ctx, "").Return([]ordermodel.Order{
			{Amount: 250, Status: ordermodel.StatusCompleted},
		}, gateway.SourceRemote, nil)

		report, _, err := svc.BuildReport(ctx, "")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, report.EstimatedFees)
		assert.Equal(t, 250.0, report.EstimatedNet)
		mockStores.AssertNotCalled(t, "GetStore")
	})

	t.Run("Unknown scoped store surfaces not found", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockStores := new(MockStoreService)
		svc := NewDashboardService(mockOrders, mockStores)

		mockOrders.On("List", ctx, "ghost").Return([]ordermodel.Order{}, gateway.SourceRemote, nil)
		mockStores.On("GetStore", ctx, "ghost").Return(nil, gateway.SourceRemote, gateway.ErrNotFound)

		_, _, err := svc.BuildReport(ctx, "ghost")

		assert.True(t, errors.Is(err, gateway.ErrNotFound))
	})
}
