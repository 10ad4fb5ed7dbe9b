package dashboard

import (
	"paylink_console/internal/domain/dashboard/handler"
	"paylink_console/internal/domain/dashboard/service"
	orderrepository "paylink_console/internal/domain/order/repository"
	storerepository "paylink_console/internal/domain/store/repository"
	storeservice "paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/registry"
	"paylink_console/internal/pkg/worker"
)

// DashboardModule 仪表盘模块
type DashboardModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&DashboardModule{})
}

func (m *DashboardModule) Name() string {
	return "dashboard"
}

func (m *DashboardModule) Priority() int {
	// 指标读取依赖订单和店铺，最后初始化业务模块
	return 20
}

func (m *DashboardModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	storeRepo := storerepository.NewStoreRepository(ctx.API, ctx.Local)
	storeService := storeservice.NewStoreService(storeRepo, ctx.Config.Admin)

	orderRepo := orderrepository.NewOrderRepository(ctx.API, ctx.Local)
	dashService := service.NewDashboardService(orderRepo, storeService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 2. 路由注册
	ctx.Router.GET("/dashboard/metrics", dashHandler.Metrics)

	// 3. 后台指标轮询，随根 context 结束
	poller := worker.NewPoller(ctx.API, dashService, ctx.Config.Dashboard)
	poller.Start(ctx.RootCtx)

	return nil
}
