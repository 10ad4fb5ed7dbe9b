package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 店铺模块错误 100xx
	ErrStoreNotFound  = 10001
	ErrStoreNameBlank = 10002

	// 订单模块错误 200xx
	ErrOrderNotFound      = 20001
	ErrOrderAmountInvalid = 20002
	ErrOrderStatusInvalid = 20003

	// 仪表盘模块错误 300xx
	ErrMetricsUnavailable = 30001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrStorageFailed   = 50004
)
