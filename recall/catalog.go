package recall

import (
	"context"

	"github.com/dressly/dresskit/catalog"
	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pipeline"
	"github.com/dressly/dresskit/pkg/utils"
)

// CatalogSource 把目录快照整体作为候选集。
// Dressly 的目录在几百到几千件的量级，全量进过滤链是默认策略；
// 目录更大时应换成热门榜/客群预筛的召回源。
// CatalogSource 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogSource struct {
	Catalog *catalog.Catalog
}

func (r *CatalogSource) Name() string        { return "recall.catalog" }
func (r *CatalogSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CatalogSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。目录缺失或为空时返回 UNAVAILABLE。
func (r *CatalogSource) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog.Len() == 0 {
		return nil, core.ErrCatalogUnavailable
	}

	products := r.Catalog.Products()
	out := make([]*core.Item, 0, len(products))
	for _, p := range products {
		it := core.NewItem(p)
		it.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
