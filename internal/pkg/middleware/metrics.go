package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"paylink_console/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录每个请求的 HTTP 指标
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestSize := getContentLength(c.Request)

		c.Next()

		duration := time.Since(start)
		endpoint := c.FullPath()
		if endpoint == "" {
			// 未匹配到路由（404），归并到一个桶避免标签爆炸
			endpoint = "unmatched"
		}

		metrics.GetGlobalCollector().RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			duration,
			requestSize,
			c.Writer.Size(),
		)
	}
}

// getContentLength 获取请求体长度
func getContentLength(req *http.Request) int {
	if req.ContentLength > 0 {
		return int(req.ContentLength)
	}

	// Content-Length 为 -1 时读出 body 再放回去
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(body))
		return len(body)
	}

	return 0
}
