package gateway

import (
	"context"
	"errors"

	"paylink_console/pkg/logger"
	"paylink_console/pkg/metrics"

	"go.uber.org/zap"
)

// Source 标识一次操作最终由哪一侧存储应答
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// ErrNotFound 实体不存在
// 远端明确返回 404 时属于权威答复，不触发本地降级
var ErrNotFound = errors.New("resource not found")

// Attempt 先尝试远端操作，失败后无重试地降级到本地副本执行等价操作
// 返回值带上应答来源，调用方和测试可以区分数据出自哪一侧
func Attempt[T any](ctx context.Context, operation string, remote, local func(ctx context.Context) (T, error)) (T, Source, error) {
	v, err := remote(ctx)
	if err == nil {
		return v, SourceRemote, nil
	}

	if errors.Is(err, ErrNotFound) {
		// 权威的"不存在"，直接上抛
		var zero T
		return zero, SourceRemote, err
	}

	if logger.Log != nil {
		logger.Log.Warn("upstream unavailable, falling back to local copy",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	metrics.GetGlobalCollector().RecordFallback(operation)

	lv, lerr := local(ctx)
	if lerr != nil {
		// 本地也失败，对这次调用来说是致命错误
		var zero T
		return zero, SourceLocal, lerr
	}
	return lv, SourceLocal, nil
}
