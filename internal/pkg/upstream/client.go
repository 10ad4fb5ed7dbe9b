package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/pkg/metrics"

	dashmodel "paylink_console/internal/domain/dashboard/model"
	ordermodel "paylink_console/internal/domain/order/model"
	storemodel "paylink_console/internal/domain/store/model"
)

// Client 上游收款平台 API 客户端
// 所有方法在远端明确返回 404 时报 gateway.ErrNotFound，其余非 2xx 或
// 传输层错误（超时、连接失败）作为普通错误返回，由网关层决定是否降级
type Client interface {
	ListStores(ctx context.Context) ([]storemodel.Store, error)
	GetStore(ctx context.Context, id string) (*storemodel.Store, error)
	CreateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error)
	UpdateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error)

	ListOrders(ctx context.Context, storeID string) ([]ordermodel.Order, error)
	GetOrder(ctx context.Context, id string) (*ordermodel.Order, error)
	UpsertOrder(ctx context.Context, order *ordermodel.Order) (*ordermodel.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*ordermodel.Order, error)

	DashboardMetrics(ctx context.Context, storeID string) (*dashmodel.Metrics, error)
}

type client struct {
	baseURL string
	http    *http.Client
}

// NewClient 创建上游客户端，超时由配置决定，超时同样视为传输失败
func NewClient(cfg config.UpstreamConfig) Client {
	return &client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (c *client) ListStores(ctx context.Context) ([]storemodel.Store, error) {
	var stores []storemodel.Store
	if err := c.doJSON(ctx, "store_list", http.MethodGet, "/api/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *client) GetStore(ctx context.Context, id string) (*storemodel.Store, error) {
	var store storemodel.Store
	path := "/api/stores/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "store_get", http.MethodGet, path, nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *client) CreateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error) {
	var created storemodel.Store
	if err := c.doJSON(ctx, "store_create", http.MethodPost, "/api/stores", store, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *client) UpdateStore(ctx context.Context, store *storemodel.Store) (*storemodel.Store, error) {
	var updated storemodel.Store
	path := "/api/stores/" + url.PathEscape(store.ID)
	if err := c.doJSON(ctx, "store_update", http.MethodPut, path, store, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *client) ListOrders(ctx context.Context, storeID string) ([]ordermodel.Order, error) {
	path := "/api/orders"
	if storeID != "" {
		path += "?storeId=" + url.QueryEscape(storeID)
	}

	var orders []ordermodel.Order
	if err := c.doJSON(ctx, "order_list", http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *client) GetOrder(ctx context.Context, id string) (*ordermodel.Order, error) {
	var order ordermodel.Order
	path := "/api/orders/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "order_get", http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpsertOrder 按 id 匹配或插入，同 id 重复提交覆盖而不是新建
func (c *client) UpsertOrder(ctx context.Context, order *ordermodel.Order) (*ordermodel.Order, error) {
	var stored ordermodel.Order
	if err := c.doJSON(ctx, "order_upsert", http.MethodPost, "/api/orders", order, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (c *client) UpdateOrderStatus(ctx context.Context, id, status string) (*ordermodel.Order, error) {
	var updated ordermodel.Order
	path := "/api/orders/" + url.PathEscape(id) + "/status"
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, "order_status", http.MethodPatch, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *client) DashboardMetrics(ctx context.Context, storeID string) (*dashmodel.Metrics, error) {
	path := "/api/dashboard/metrics"
	if storeID != "" {
		path += "?storeId=" + url.QueryEscape(storeID)
	}

	var m dashmodel.Metrics
	if err := c.doJSON(ctx, "dashboard_metrics", http.MethodGet, path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// doJSON 发送一次 JSON 请求并解码响应，同时上报上游调用指标
func (c *client) doJSON(ctx context.Context, operation, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("upstream request error: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	collector := metrics.GetGlobalCollector()
	if err != nil {
		collector.RecordUpstreamRequest(operation, "error", duration)
		return fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	collector.RecordUpstreamRequest(operation, metrics.GetStatusCategory(resp.StatusCode), duration)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("upstream %s %s: %w", method, path, gateway.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream %s %s: status %d: %s", method, path, resp.StatusCode, string(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("upstream decode error: %w", err)
		}
	}
	return nil
}
