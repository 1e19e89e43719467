package pipeline

import (
	"context"

	"github.com/dressly/dresskit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：从目录/热门榜生成候选集
	KindFilter Kind = "filter" // 过滤阶段：偏好/客群/规则过滤
	KindRank   Kind = "rank"   // 排序阶段：内容相似打分或兜底排序
	KindReRank Kind = "rerank" // 重排阶段：TopN 截断、多样性
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便召回生成、过滤截断、重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node，供配置驱动的 NodeFactory 使用。
type NodeBuilder = func(config map[string]any) (Node, error)
