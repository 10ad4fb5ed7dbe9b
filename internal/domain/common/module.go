package common

import (
	"net/http"

	"paylink_console/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// 注册通用路由
	setupRoutes(ctx.Router)
	return nil
}

func setupRoutes(r *gin.Engine) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus 指标暴露
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
