package utils

import "time"

// ISOFormat 实体时间戳的统一格式（UTC，毫秒精度）
// 所有 createdAt/updatedAt 都用该格式生成，保证字典序与时间序一致
const ISOFormat = "2006-01-02T15:04:05.000Z07:00"

// NowISO 返回当前 UTC 时间的 ISO 字符串
func NowISO() string {
	return FormatISO(time.Now())
}

// FormatISO 格式化为 ISO 字符串
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOFormat)
}
