package core

import "github.com/dressly/dresskit/pkg/utils"

// SegmentUnknown 表示请求尚未解析出客群（无预计算标签、无画像可预测）。
// 此时链路跳过客群限制，直接走偏好过滤 + 兜底排序。
const SegmentUnknown = -1

// Preference 是一次请求可选携带的偏好过滤条件（来自风格测验/站内设置）。
// 每个字段独立生效：空字符串/HasBudget=false 表示跳过对应过滤。
type Preference struct {
	FavColor  string  // 颜色相等过滤，忽略大小写
	FavStyle  string  // 品类（风格）相等过滤，忽略大小写
	Budget    float64 // 价格上限，price <= Budget
	HasBudget bool
}

// RecommendContext 承载一次推荐请求的用户侧信息，贯穿整个 Pipeline 透传。
// 它只描述“这次请求”，不持有目录/模型等共享状态；推荐核心对它只读。
type RecommendContext struct {
	UserID int64

	// Profile 是调用方提供的客户画像，用于无预计算标签时的实时客群预测。
	Profile *CustomerProfile

	// History 是用户浏览/购买过的商品 ID，由调用方（Web 层）从会话/库里取出。
	History []int64

	// Prefs 是可选的偏好过滤条件。
	Prefs *Preference

	// Segment 是本次请求已解析的客群标签，未知时为 SegmentUnknown。
	Segment int

	// Params 请求级上下文参数（实验开关、场景名等）。
	Params map[string]any

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label
}

// HistorySet 把 History 转成集合，便于过滤后判断哪些历史商品仍在候选集里。
func (rctx *RecommendContext) HistorySet() map[int64]bool {
	if rctx == nil || len(rctx.History) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(rctx.History))
	for _, id := range rctx.History {
		set[id] = true
	}
	return set
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
