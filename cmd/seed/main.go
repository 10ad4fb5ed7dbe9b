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
	"time"

	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/localstore"
	"paylink_console/pkg/cache"
	"paylink_console/pkg/database"
)

type seedStore struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	APIKey      string   `json:"apiKey,omitempty"`
	FeePercent  *float64 `json:"feePercent,omitempty"`
	FeeFixed    *float64 `json:"feeFixed,omitempty"`
}

type seedOrder struct {
	Amount      float64
	Description string
	Status      string // pending 之外的状态会在创建后补一次流转
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Console base URL")
		reset   = flag.Bool("reset", false, "Wipe the local archive before seeding")
	)
	flag.Parse()

	if *reset {
		resetArchive()
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("🌱 开始写入演示数据")
	fmt.Println("================================")

	feePct := 2.5
	feeFix := 0.5
	stores := []seedStore{
		{Name: "Coffee Corner", Description: "精品咖啡外卖", FeePercent: &feePct, FeeFixed: &feeFix},
		{Name: "Studio Luz", Description: "摄影工作室", APIKey: "sk_studio_demo"},
		{Name: "Feira Online", Description: "线上市集"},
	}

	storeIDs := make([]string, 0, len(stores))
	for _, s := range stores {
		id := createStore(client, *baseURL, s)
		if id == "" {
			log.Fatalf("❌ 创建店铺失败: %s", s.Name)
		}
		fmt.Printf("✅ 店铺 %-14s -> %s\n", s.Name, id)
		storeIDs = append(storeIDs, id)
	}

	orders := []seedOrder{
		{Amount: 120, Description: "手冲咖啡套装", Status: "completed"},
		{Amount: 35.5, Description: "挂耳咖啡 10 包", Status: "pending"},
		{Amount: 899, Description: "个人写真拍摄", Status: "completed"},
		{Amount: 450, Description: "证件照精修", Status: "cancelled"},
		{Amount: 58, Description: "有机蔬菜箱", Status: "pending"},
		{Amount: 2300, Description: "年度会员", Status: "refunded"},
	}

	for i, o := range orders {
		storeID := storeIDs[i%len(storeIDs)]
		orderID := createOrder(client, *baseURL, storeID, o)
		if orderID == "" {
			log.Fatalf("❌ 创建订单失败: %s", o.Description)
		}
		if o.Status != "pending" {
			if !updateStatus(client, *baseURL, orderID, o.Status) {
				log.Fatalf("❌ 更新订单状态失败: %s -> %s", orderID, o.Status)
			}
		}
		fmt.Printf("✅ 订单 %-14s %-8s ¥%.2f\n", orderID[:8], o.Status, o.Amount)
	}

	fmt.Println("================================")
	fmt.Println("🎉 演示数据写入完成")
}

// resetArchive 直接清空本地副本，绕过 API
func resetArchive() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	local := localstore.New(cache.NewRedisCache(rdb, cfg.Redis.KeyPrefix))
	if err := local.Reset(context.Background()); err != nil {
		log.Fatalf("Failed to reset local archive: %v", err)
	}

	fmt.Println("🧹 本地副本已清空")
}

func createStore(client *http.Client, baseURL string, s seedStore) string {
	body, _ := json.Marshal(s)
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

func createOrder(client *http.Client, baseURL, storeID string, o seedOrder) string {
	payload := map[string]interface{}{
		"amount":      o.Amount,
		"description": o.Description,
		"storeId":     storeID,
	}
	body, _ := json.Marshal(payload)

	resp, err := client.Post(baseURL+"/orders", "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Printf("创建订单失败: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result struct {
		Code int `json:"code"`
		Data struct {
			Order struct {
				ID string `json:"id"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || result.Code != 0 {
		fmt.Printf("创建订单响应异常: %s\n", string(respBody))
		return ""
	}
	return result.Data.Order.ID
}

func updateStatus(client *http.Client, baseURL, orderID, status string) bool {
	body, _ := json.Marshal(map[string]string{"status": status})
	req, err := http.NewRequest(http.MethodPatch, baseURL+"/orders/"+orderID+"/status", bytes.NewBuffer(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}
