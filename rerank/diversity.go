package rerank

import (
	"context"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pipeline"
)

// Diversity 是一个简单的多样性 ReRank 节点：按品类去重，每个品类只保留
// 排序最靠前的一件商品。品类取自 Product.Category，没有品类的商品直接保留。
type Diversity struct{}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		cate := ""
		if it.Product != nil {
			cate = it.Product.Category
		}
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] {
			continue
		}
		seen[cate] = true
		out = append(out, it)
	}

	return out, nil
}
