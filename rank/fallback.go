package rank

import (
	"context"
	"math/rand"
	"sort"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pipeline"
	"github.com/dressly/dresskit/pkg/utils"
)

// DefaultShuffleSeed 是兜底洗牌的固定种子，保证同一输入下结果可复现。
const DefaultShuffleSeed int64 = 42

// FallbackNode 是冷启动兜底排序 Node，用于没有历史或内容打分不适用的场景。
// 排序策略按 Signal 选择：
//   - SignalPopularity：按人气降序
//   - SignalRating：按评分降序
//   - SignalNone：固定种子洗牌（确定性，同一输入同一输出，不是真随机）
//
// 同分时保持输入顺序（稳定排序）。写入 labels：rank_strategy。
type FallbackNode struct {
	Signal core.RankSignal
	// Seed 洗牌种子，<=0 时使用 DefaultShuffleSeed
	Seed int64
}

func (n *FallbackNode) Name() string        { return "rank.fallback" }
func (n *FallbackNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *FallbackNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	strategy := n.Signal.String()
	switch n.Signal {
	case core.SignalPopularity:
		n.sortBy(items, func(p *core.Product) float64 { return p.Popularity })
	case core.SignalRating:
		n.sortBy(items, func(p *core.Product) float64 { return p.Rating })
	default:
		strategy = "shuffle"
		n.shuffle(items)
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.PutLabel("rank_strategy", utils.Label{Value: strategy, Source: "rank.fallback"})
	}
	return items, nil
}

func (n *FallbackNode) sortBy(items []*core.Item, value func(*core.Product) float64) {
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		it.Score = value(it.Product)
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
}

func (n *FallbackNode) shuffle(items []*core.Item) {
	seed := n.Seed
	if seed <= 0 {
		seed = DefaultShuffleSeed
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
