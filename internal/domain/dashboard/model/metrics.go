package model

// Metrics 按范围汇总的运营指标
// TotalRevenue 只统计 completed 订单；ConversionRate 固定一位小数，
// 无订单时为字面量 "0.0"，避免除零
type Metrics struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	PendingOrders  int     `json:"pendingOrders"`
	ConversionRate string  `json:"conversionRate"`
}

// Report 仪表盘完整报表：汇总指标加上按店铺费率推导的估算值
// 估算值是展示层派生，不落库
type Report struct {
	Metrics
	EstimatedFees float64 `json:"estimatedFees"`
	EstimatedNet  float64 `json:"estimatedNet"`
}
