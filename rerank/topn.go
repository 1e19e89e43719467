package rerank

import (
	"context"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pipeline"
)

// 默认截断数量。用户推荐默认 6 个，运营广告圈选默认 3 个，调用方最小可传 1。
const (
	DefaultUserTopN = 6
	DefaultAdTopN   = 3
)

// TopNNode 是 Top-N 截断节点，放在排序节点之后限制返回结果数量。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ContentNode{},
//	        &rerank.TopNNode{N: rerank.DefaultUserTopN},
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量，N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

// ClampTopN 规范调用方传入的 top_n：小于 1 时落到默认值 def。
func ClampTopN(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}
