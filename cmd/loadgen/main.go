package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"paylink_console/pkg/testing"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL for testing")
		testType = flag.String("type", "all", "Test type: api, load, stress, burst, all")
		users    = flag.Int("users", 1000, "Concurrent order creators for burst test")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("🚀 Paylink Console 性能测试工具")
	fmt.Println("================================")

	// 检查服务器是否可用
	apiTest := testing.NewAPITest(*baseURL)
	if !checkServerHealth(apiTest) {
		log.Fatalf("❌ 服务器不可用: %s", *baseURL)
	}

	fmt.Printf("✅ 服务器可用: %s\n", *baseURL)
	fmt.Println()

	// 根据测试类型运行相应的测试
	switch *testType {
	case "api":
		apiTest.RunAPITests()
	case "load":
		apiTest.RunLoadTest()
	case "stress":
		apiTest.RunStressTest()
	case "burst":
		runOrderBurst(*baseURL, *users)
	case "all":
		apiTest.RunAPITests()
		fmt.Println()
		apiTest.RunLoadTest()
		fmt.Println()
		apiTest.RunStressTest()
		fmt.Println()
		runOrderBurst(*baseURL, *users)
	default:
		fmt.Printf("❌ 未知的测试类型: %s\n", *testType)
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("用法:")
	fmt.Println("  loadgen [选项]")
	fmt.Println("")
	fmt.Println("选项:")
	fmt.Println("  -url string   测试服务器地址 (默认: http://localhost:8080)")
	fmt.Println("  -type string  测试类型 (api|load|stress|burst|all) (默认: all)")
	fmt.Println("  -users int    burst 模式的并发下单数 (默认: 1000)")
	fmt.Println("  -help         显示帮助信息")
	fmt.Println("")
	fmt.Println("测试类型说明:")
	fmt.Println("  api     - API 性能测试")
	fmt.Println("  load    - 负载测试")
	fmt.Println("  stress  - 压力测试")
	fmt.Println("  burst   - 并发下单一致性测试")
	fmt.Println("  all     - 运行所有测试")
	fmt.Println("")
	fmt.Println("示例:")
	fmt.Println("  loadgen -url=http://localhost:8080 -type=api")
	fmt.Println("  loadgen -type=burst -users=5000")
}

func checkServerHealth(apiTest *testing.APITest) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return apiTest.HealthCheckTest()(ctx) == nil
}

// runOrderBurst 并发下单，再用指标接口核对计数
func runOrderBurst(baseURL string, users int) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	client := &http.Client{Transport: t, Timeout: 10 * time.Second}

	// 1. 建一个压测专用店铺
	storeID := createStore(client, baseURL)
	if storeID == "" {
		log.Fatal("❌ 创建压测店铺失败")
	}

	fmt.Printf("开始压测：%d 个并发客户端对店铺 %s 下单...\n", users, storeID)
	time.Sleep(1 * time.Second)

	// 2. 并发下单
	var wg sync.WaitGroup
	successCount := 0
	failCount := 0
	var mu sync.Mutex

	start := time.Now()

	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok := createOrder(client, baseURL, storeID, n)
			mu.Lock()
			if ok {
				successCount++
			} else {
				failCount++
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)
	qps := float64(users) / duration.Seconds()

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", users)
	fmt.Printf("QPS: %.2f\n", qps)
	fmt.Printf("下单成功: %d\n", successCount)
	fmt.Printf("下单失败: %d\n", failCount)

	// 3. 用指标接口核对：新订单都应是 pending
	if metrics := fetchMetrics(client, baseURL, storeID); metrics != nil {
		fmt.Printf("店铺指标: 总订单 %v, 待支付 %v (预期: %d)\n",
			metrics["totalOrders"], metrics["pendingOrders"], successCount)
	}
	fmt.Println("--------------------------------------------------")
}

func createStore(client *http.Client, baseURL string) string {
	payload := map[string]interface{}{
		"name":        fmt.Sprintf("压测店铺 %d", time.Now().Unix()),
		"description": "loadgen burst target",
	}
	body, _ := json.Marshal(payload)

	resp, err := client.Post(baseURL+"/stores", "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Printf("创建店铺失败: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result struct {
		Code int `json:"code"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || result.Code != 0 {
		fmt.Printf("创建店铺响应异常: %s\n", string(respBody))
		return ""
	}
	return result.Data.ID
}

func createOrder(client *http.Client, baseURL, storeID string, n int) bool {
	payload := map[string]interface{}{
		"amount":      float64(10 + n%5000),
		"description": fmt.Sprintf("burst order %d", n),
		"storeId":     storeID,
	}
	body, _ := json.Marshal(payload)

	resp, err := client.Post(baseURL+"/orders", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	var result struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false
	}
	return result.Code == 0
}

func fetchMetrics(client *http.Client, baseURL, storeID string) map[string]interface{} {
	resp, err := client.Get(baseURL + "/dashboard/metrics?storeId=" + storeID)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var result struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil
	}
	return result.Data
}
