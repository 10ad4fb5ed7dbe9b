package model

// Order 收款订单（支付意向 + 付款人快照）
// 费用/净额是派生值，不落库，只持久化 amount
type Order struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	StoreID     string  `json:"storeId,omitempty"`
	// StoreName 是创建时刻的店铺名快照，店铺改名后不回填
	StoreName string `json:"storeName,omitempty"`

	// 付款人信息，进入收银台流程后才填充
	CustomerName  string `json:"customerName,omitempty"`
	CustomerTaxID string `json:"customerTaxId,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`

	// 网关侧信息，由收银台协作方写入
	PaymentID   string `json:"paymentId,omitempty"`
	QRCode      string `json:"qrCode,omitempty"`
	QRCodeImage string `json:"qrCodeImage,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// 订单状态，pending 是唯一非终态
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// IsValidStatus 判断状态是否属于合法集合
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusExpired, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// IsTerminalStatus 判断状态是否为终态
func IsTerminalStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusExpired, StatusCancelled, StatusRefunded:
		return true
	case StatusPending:
		return false
	}
	return false
}

// CustomerFields 收银台回填的付款人字段
type CustomerFields struct {
	Name  string `json:"name,omitempty"`
	TaxID string `json:"taxId,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
