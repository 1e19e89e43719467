package filter

import (
	"context"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pkg/dsl"
)

// Rule 是规则过滤器：运营用 CEL 表达式圈选商品（广告投放场景）。
// 表达式为“保留条件”，求值为 false 的商品被过滤。
//
// 示例：
//
//	&filter.Rule{Expr: `product.category == "Party" && product.price <= 150.0`}
type Rule struct {
	Expr string
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	if item == nil {
		return true, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
