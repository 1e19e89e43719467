package recall

import (
	"context"
	"strconv"

	"github.com/dressly/dresskit/catalog"
	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pipeline"
	"github.com/dressly/dresskit/pkg/utils"
)

// Hot 是热门召回源，从 Store 的有序集合读取热门商品榜。
// - 如果 Store 实现了 KeyValueStore，使用 ZRange（按 popularity 分数降序）
// - 否则/读取失败时，使用内存中的 IDs 作为 fallback
// 召回到的 ID 经目录快照解析为商品；不在当前快照里的 ID 直接丢弃（下架商品）。
// Hot 同时实现了 Source 和 Node 接口。
type Hot struct {
	Store   core.Store
	Key     string // 存储 key，例如 "hot:products"
	Catalog *catalog.Catalog
	IDs     []int64 // fallback 内存列表
	TopK    int     // 从榜单读取的数量，默认 100
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	var ids []int64

	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			topK := int64(r.TopK)
			if topK <= 0 {
				topK = 100
			}
			members, err := kvStore.ZRange(ctx, r.Key, 0, topK-1)
			if err == nil && len(members) > 0 {
				ids = make([]int64, 0, len(members))
				for _, m := range members {
					if id, err := strconv.ParseInt(m, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
			}
		}
	}

	// Fallback：使用内存 IDs
	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		p, ok := r.Catalog.ByID(id)
		if !ok {
			continue
		}
		it := core.NewItem(p)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
