package model

// Store 店铺模型
// apiKey/feePercent/feeFixed 是对全局默认值的覆盖，缺省表示使用全局配置
type Store struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	APIKey      string   `json:"apiKey,omitempty"`
	FeePercent  *float64 `json:"feePercent,omitempty"`
	FeeFixed    *float64 `json:"feeFixed,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}
