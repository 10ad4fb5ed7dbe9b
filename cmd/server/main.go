package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/localstore"
	"paylink_console/internal/pkg/middleware"
	"paylink_console/internal/pkg/registry"
	"paylink_console/internal/pkg/upstream"
	"paylink_console/internal/pkg/validation"
	"paylink_console/pkg/cache"
	"paylink_console/pkg/database"
	"paylink_console/pkg/logger"
	"paylink_console/pkg/metrics"

	// 模块通过 init() 自注册
	_ "paylink_console/internal/domain/common"
	_ "paylink_console/internal/domain/dashboard"
	_ "paylink_console/internal/domain/order"
	_ "paylink_console/internal/domain/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Server.Mode); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. 初始化指标收集器
	metrics.InitMetrics()

	// 4. 初始化 Redis（本地副本的存储，属于必需基础设施）
	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	local := localstore.New(cache.NewRedisCache(rdb, cfg.Redis.KeyPrefix))
	api := upstream.NewClient(cfg.Upstream)

	// 5. 初始化 Gin
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Trace-ID")
	corsCfg.ExposeHeaders = []string{"X-Data-Source", "X-Trace-ID", "X-Request-ID"}

	r.Use(
		gin.Recovery(),
		cors.New(corsCfg),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(),
	)

	// 6. 初始化所有模块，后台任务挂在 rootCtx 上
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	moduleCtx := &registry.ModuleContext{
		Router:    r,
		Config:    cfg,
		API:       api,
		Local:     local,
		Validator: validation.New(),
		RootCtx:   rootCtx,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	// 7. 启动服务并等待退出信号
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	cancel() // 先停后台轮询

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
