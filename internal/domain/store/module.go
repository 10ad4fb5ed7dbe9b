package store

import (
	"paylink_console/internal/domain/store/handler"
	"paylink_console/internal/domain/store/repository"
	"paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StoreModule 店铺模块
type StoreModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&StoreModule{})
}

func (m *StoreModule) Name() string {
	return "store"
}

func (m *StoreModule) Priority() int {
	// 店铺模块优先初始化，订单创建依赖店铺快照
	return 1
}

func (m *StoreModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	storeRepo := repository.NewStoreRepository(ctx.API, ctx.Local)
	storeService := service.NewStoreService(storeRepo, ctx.Config.Admin)
	storeHandler := handler.NewStoreHandler(storeService, ctx.Validator)

	// 2. 路由注册
	setupRoutes(ctx.Router, storeHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StoreHandler) {
	storeGroup := r.Group("/stores")
	{
		storeGroup.GET("", h.ListStores)
		storeGroup.POST("", h.CreateStore)
		storeGroup.GET("/:id", h.GetStore)
		storeGroup.PUT("/:id", h.UpdateStore)
	}
}
