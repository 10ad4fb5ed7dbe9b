package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	dashservice "paylink_console/internal/domain/dashboard/service"
	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/upstream"
	"paylink_console/pkg/logger"
	"paylink_console/pkg/metrics"

	"go.uber.org/zap"
)

// Poller 周期性刷新仪表盘指标并导出到 Prometheus 口径
// 优先用上游的聚合接口，上游不可用时退回本地汇总
type Poller struct {
	api      upstream.Client
	fallback dashservice.DashboardService
	storeID  string
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller 创建指标轮询器
func NewPoller(api upstream.Client, fallback dashservice.DashboardService, cfg config.DashboardConfig) *Poller {
	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		api:      api,
		fallback: fallback,
		storeID:  cfg.StoreID,
		interval: interval,
	}
}

// Start 启动轮询协程，父 context 取消时退出
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// 启动即刷一次，不等首个周期
		p.refresh(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			}
		}
	}()

	if logger.Log != nil {
		logger.Log.Info("dashboard poller started",
			zap.Duration("interval", p.interval),
			zap.String("store_id", p.storeID),
		)
	}
}

// Stop 停止轮询并等待协程退出
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Poller) refresh(ctx context.Context) {
	m, err := p.api.DashboardMetrics(ctx, p.storeID)
	if err != nil {
		// 上游聚合不可用，用本地订单副本算一份等价指标
		local, _, lerr := p.fallback.Summarize(ctx, p.storeID)
		if lerr != nil {
			if logger.Log != nil {
				logger.Log.Warn("dashboard refresh failed on both sides",
					zap.Error(err),
					zap.NamedError("local_error", lerr),
				)
			}
			return
		}
		m = local
	}

	rate, _ := strconv.ParseFloat(m.ConversionRate, 64)

	fees := 0.0
	if report, err := p.fallback.Estimate(ctx, p.storeID, m); err == nil {
		fees = report.EstimatedFees
	}

	metrics.GetGlobalCollector().UpdateDashboard(m.TotalOrders, m.TotalRevenue, m.PendingOrders, rate, fees)
}
