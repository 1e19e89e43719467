package filter

import (
	"context"

	"github.com/dressly/dresskit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
//
// Dressly 的偏好过滤器（颜色/风格/预算）彼此独立且只做相等/区间判断，
// 应用顺序不影响结果集（可交换）。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
