package fee

import "fmt"

// 费率规则：两档手续费，带最小/最大收款额
const (
	MinAmount = 10.0
	MaxAmount = 6000.0

	// Percent 按比例费率
	Percent = 0.02
	// SmallOrderSurcharge 小额订单附加费，适用于低于 SmallOrderThreshold 的订单
	SmallOrderSurcharge = 1.00
	SmallOrderThreshold = 50.0
)

// Quote 费用评估结果
// Valid 为 false 时 Fee/Net 仍会给出，用于无效金额的预览展示
type Quote struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
	Fee    float64 `json:"fee"`
	Net    float64 `json:"net"`
}

// Evaluate 评估一笔金额的有效性与费用
// 纯函数，无副作用；无效性通过 Valid 字段表达，不返回错误
func Evaluate(amount float64) Quote {
	q := Quote{Valid: true}

	if amount < MinAmount {
		q.Valid = false
		q.Reason = fmt.Sprintf("amount below minimum of %.2f", MinAmount)
	} else if amount > MaxAmount {
		q.Valid = false
		q.Reason = fmt.Sprintf("amount above maximum of %.2f", MaxAmount)
	}

	// 费用无论有效与否都要计算
	if amount < SmallOrderThreshold {
		q.Fee = amount*Percent + SmallOrderSurcharge
	} else {
		q.Fee = amount * Percent
	}
	q.Net = amount - q.Fee

	return q
}
