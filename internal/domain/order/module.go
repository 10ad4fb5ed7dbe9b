package order

import (
	"paylink_console/internal/domain/order/handler"
	"paylink_console/internal/domain/order/repository"
	"paylink_console/internal/domain/order/service"
	storerepository "paylink_console/internal/domain/store/repository"
	storeservice "paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 在店铺模块之后初始化
	return 10
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	// 订单服务需要店铺服务解析快照，这里重建一份而不是跨模块取实例
	storeRepo := storerepository.NewStoreRepository(ctx.API, ctx.Local)
	storeService := storeservice.NewStoreService(storeRepo, ctx.Config.Admin)

	orderRepo := repository.NewOrderRepository(ctx.API, ctx.Local)
	orderService := service.NewOrderService(orderRepo, storeService)
	orderHandler := handler.NewOrderHandler(orderService, ctx.Validator, ctx.Config.App.CheckoutBaseURL)

	// 2. 路由注册
	setupRoutes(ctx.Router, orderHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	orderGroup := r.Group("/orders")
	{
		orderGroup.GET("", h.ListOrders)
		orderGroup.POST("", h.CreateOrder)
		orderGroup.GET("/:id", h.GetOrder)
		orderGroup.PATCH("/:id/status", h.UpdateStatus)
		orderGroup.PUT("/:id/customer", h.AttachCustomer)
	}

	// 试算放在独立分组，避免和 /orders/:id 冲突
	r.GET("/fees/quote", h.QuoteFee)
}
