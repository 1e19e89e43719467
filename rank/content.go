package rank

import (
	"context"
	"sort"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/feature"
	"github.com/dressly/dresskit/pipeline"
	"github.com/dressly/dresskit/pkg/utils"
)

// ContentNode 是基于内容的排序 Node：用商品固有属性（颜色、品类、归一化价格）
// 的余弦相似度，对候选集相对用户历史进行打分。
//
// 打分规则：
//   - 特征向量在当前候选集内构建（历史向量取候选集中命中历史 id 的子集）
//   - 每个候选的分数 = 与所有历史向量相似度的均值（取均值而非最大值，
//     偏向与整体历史都相似的商品，而不是只与某一件高度相似的商品）
//   - 按分数稳定降序排序，同分保持输入顺序
//
// 如果候选集中没有任何历史商品（例如全部被偏好/客群过滤掉了），
// 返回 core.ErrContentNotApplicable，由编排层降级到兜底排序。
// 不能返回全零分：全零与"全都不相关"无法区分，会掩盖真实原因。
type ContentNode struct{}

func (n *ContentNode) Name() string        { return "rank.content" }
func (n *ContentNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ContentNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx == nil || len(rctx.History) == 0 {
		return nil, core.ErrContentNotApplicable
	}

	products := make([]*core.Product, len(items))
	for i, it := range items {
		if it != nil {
			products[i] = it.Product
		}
	}
	vectors := feature.ProductVectors(products)

	// 历史向量取候选集内命中历史 id 的子集
	historySet := rctx.HistorySet()
	var historyVecs []map[string]float64
	for i, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		if historySet[it.Product.ID] {
			historyVecs = append(historyVecs, vectors[i])
		}
	}
	if len(historyVecs) == 0 {
		return nil, core.ErrContentNotApplicable
	}

	for i, it := range items {
		if it == nil {
			continue
		}
		sum := 0.0
		for _, hv := range historyVecs {
			sum += feature.Cosine(vectors[i], hv)
		}
		it.Score = sum / float64(len(historyVecs))
		it.PutLabel("rank_strategy", utils.Label{Value: "content", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
