package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// APITest 针对控制台接口的性能测试
type APITest struct {
	baseURL string
	client  *http.Client
}

// NewAPITest 创建 API 测试
func NewAPITest(baseURL string) *APITest {
	// 连接池调大，避免压测时客户端先成为瓶颈
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000

	return &APITest{
		baseURL: baseURL,
		client: &http.Client{
			Transport: t,
			Timeout:   time.Second * 10,
		},
	}
}

// get 发送 GET 并检查状态码
func (at *APITest) get(ctx context.Context, path string, okCodes ...int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, at.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := at.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	for _, code := range okCodes {
		if resp.StatusCode == code {
			return nil
		}
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

// HealthCheckTest 健康检查测试
func (at *APITest) HealthCheckTest() RequestFunc {
	return func(ctx context.Context) error {
		return at.get(ctx, "/health", http.StatusOK)
	}
}

// StoreListTest 店铺列表测试
func (at *APITest) StoreListTest() RequestFunc {
	return func(ctx context.Context) error {
		return at.get(ctx, "/stores", http.StatusOK)
	}
}

// OrderListTest 订单列表测试
func (at *APITest) OrderListTest(storeID string) RequestFunc {
	path := "/orders"
	if storeID != "" {
		path += "?storeId=" + storeID
	}
	return func(ctx context.Context) error {
		return at.get(ctx, path, http.StatusOK)
	}
}

// MetricsTest 仪表盘指标测试
func (at *APITest) MetricsTest() RequestFunc {
	return func(ctx context.Context) error {
		return at.get(ctx, "/dashboard/metrics", http.StatusOK)
	}
}

// QuoteTest 费用试算测试
func (at *APITest) QuoteTest() RequestFunc {
	return func(ctx context.Context) error {
		amount := 10 + rand.Float64()*5990
		return at.get(ctx, fmt.Sprintf("/fees/quote?amount=%.2f", amount), http.StatusOK)
	}
}

// OrderCreateTest 订单创建测试，金额随机落在可收款区间内
func (at *APITest) OrderCreateTest(storeID string) RequestFunc {
	return func(ctx context.Context) error {
		payload := map[string]interface{}{
			"amount":      float64(10+rand.Intn(5990)) + 0.5,
			"description": "loadgen order",
		}
		if storeID != "" {
			payload["storeId"] = storeID
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, at.baseURL+"/orders", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := at.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil
	}
}

// RunAPITests 运行 API 性能测试
func (at *APITest) RunAPITests() {
	fmt.Println("🚀 开始 API 性能测试")
	fmt.Println("================================")

	// 1. 健康检查测试
	fmt.Println("📊 健康检查性能测试")
	healthTest := NewPerformanceTest("health_check", 50, time.Second*30)
	healthTest.AddRequest(at.HealthCheckTest())
	healthResult := healthTest.Run()
	healthResult.PrintResult()

	// 2. 店铺列表测试
	fmt.Println("📊 店铺列表性能测试")
	storeListTest := NewPerformanceTest("store_list", 20, time.Second*30)
	storeListTest.AddRequest(at.StoreListTest())
	storeListResult := storeListTest.Run()
	storeListResult.PrintResult()

	// 3. 订单列表测试
	fmt.Println("📊 订单列表性能测试")
	orderListTest := NewPerformanceTest("order_list", 20, time.Second*30)
	orderListTest.AddRequest(at.OrderListTest(""))
	orderListResult := orderListTest.Run()
	orderListResult.PrintResult()

	// 4. 费用试算测试
	fmt.Println("📊 费用试算性能测试")
	quoteTest := NewPerformanceTest("fee_quote", 30, time.Second*30)
	quoteTest.AddRequest(at.QuoteTest())
	quoteResult := quoteTest.Run()
	quoteResult.PrintResult()

	// 5. 混合负载测试
	fmt.Println("📊 混合负载性能测试")
	mixedTest := NewPerformanceTest("mixed_load", 30, time.Second*60)
	mixedTest.AddRequest(at.HealthCheckTest())
	mixedTest.AddRequest(at.StoreListTest())
	mixedTest.AddRequest(at.OrderListTest(""))
	mixedTest.AddRequest(at.MetricsTest())
	mixedResult := mixedTest.Run()
	mixedResult.PrintResult()

	// 6. 结果对比
	fmt.Println("📈 测试结果对比")
	CompareResults(healthResult, storeListResult, orderListResult, quoteResult, mixedResult)

	fmt.Println("================================")
	fmt.Println("✅ API 性能测试完成")
}

// RunLoadTest 运行负载测试
func (at *APITest) RunLoadTest() {
	fmt.Println("🔄 开始负载测试")
	fmt.Println("================================")

	loadTest := NewLoadTest()

	// 场景1: 低并发长时间测试
	loadTest.AddScenario(LoadScenario{
		Name:        "low_concurrency",
		Concurrency: 10,
		Duration:    time.Minute * 2,
		Requests: []RequestFunc{
			at.HealthCheckTest(),
			at.StoreListTest(),
			at.OrderListTest(""),
		},
	})

	// 场景2: 中等并发读写混合
	loadTest.AddScenario(LoadScenario{
		Name:        "medium_concurrency",
		Concurrency: 50,
		Duration:    time.Minute * 1,
		Requests: []RequestFunc{
			at.OrderListTest(""),
			at.OrderCreateTest(""),
			at.MetricsTest(),
		},
	})

	// 场景3: 渐进式负载测试
	loadTest.AddScenario(LoadScenario{
		Name:        "ramp_up_test",
		Concurrency: 100,
		Duration:    time.Minute * 3,
		RampUp:      time.Minute * 1,
		Requests: []RequestFunc{
			at.HealthCheckTest(),
			at.OrderListTest(""),
		},
	})

	results := loadTest.Run()

	fmt.Println("📈 负载测试结果汇总")
	for _, result := range results {
		fmt.Printf("场景: %-20s | QPS: %-8.2f | P95: %-8v | 错误率: %-6.2f%%\n",
			result.TestName, result.QPS, result.P95, result.ErrorRate*100)
	}

	fmt.Println("================================")
	fmt.Println("✅ 负载测试完成")
}

// RunStressTest 运行压力测试
func (at *APITest) RunStressTest() {
	fmt.Println("💪 开始压力测试")
	fmt.Println("================================")

	stressTest := NewStressTest(200, 20, time.Second*30)
	stressTest.AddRequest(at.HealthCheckTest())
	stressTest.AddRequest(at.OrderListTest(""))
	stressTest.AddRequest(at.MetricsTest())

	results := stressTest.Run()

	fmt.Println("📈 压力测试结果汇总")
	for _, result := range results {
		fmt.Printf("并发: %-4d | QPS: %-8.2f | P95: %-8v | 错误率: %-6.2f%%\n",
			result.Concurrency, result.QPS, result.P95, result.ErrorRate*100)
	}

	fmt.Println("================================")
	fmt.Println("✅ 压力测试完成")
}
