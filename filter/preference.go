package filter

import (
	"context"
	"strings"

	"github.com/dressly/dresskit/core"
)

// Color 是颜色偏好过滤器：保留颜色与 Value 相等（忽略大小写）的商品。
// Value 为空时不过滤任何商品。
type Color struct {
	Value string
}

func (f *Color) Name() string { return "filter.color" }

func (f *Color) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Value == "" {
		return false, nil
	}
	if item == nil || item.Product == nil {
		return true, nil
	}
	return !strings.EqualFold(item.Product.Color, f.Value), nil
}

// Style 是风格（品类）偏好过滤器：保留品类与 Value 相等（忽略大小写）的商品。
type Style struct {
	Value string
}

func (f *Style) Name() string { return "filter.style" }

func (f *Style) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Value == "" {
		return false, nil
	}
	if item == nil || item.Product == nil {
		return true, nil
	}
	return !strings.EqualFold(item.Product.Category, f.Value), nil
}

// Budget 是预算过滤器：保留 price <= Ceiling 的商品。
// Enabled 为 false 时不过滤（预算未设置与预算为 0 是不同语义）。
type Budget struct {
	Ceiling float64
	Enabled bool
}

func (f *Budget) Name() string { return "filter.budget" }

func (f *Budget) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if !f.Enabled {
		return false, nil
	}
	if item == nil || item.Product == nil {
		return true, nil
	}
	return item.Product.Price > f.Ceiling, nil
}

// PriceRange 是价格区间过滤器（闭区间），用于运营侧广告圈选。
type PriceRange struct {
	Min float64
	Max float64
}

func (f *PriceRange) Name() string { return "filter.price_range" }

func (f *PriceRange) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	p := item.Product.Price
	return p < f.Min || p > f.Max, nil
}

// Segment 是客群限制过滤器：只保留客群标签等于 Target 的商品。
// 没有客群标签的商品一并过滤（标签缺失的行无法证明属于目标客群）。
// 编排层只在目录整体携带客群标签时才挂载此过滤器。
type Segment struct {
	Target int
}

func (f *Segment) Name() string { return "filter.segment" }

func (f *Segment) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	if !item.Product.HasSegment {
		return true, nil
	}
	return item.Product.Segment != f.Target, nil
}

// FromPreference 把一份请求偏好展开为过滤器链（颜色、风格、预算的顺序）。
// 缺失的偏好字段直接跳过，不生成对应过滤器。
func FromPreference(p *core.Preference) []Filter {
	if p == nil {
		return nil
	}
	var filters []Filter
	if p.FavColor != "" {
		filters = append(filters, &Color{Value: p.FavColor})
	}
	if p.FavStyle != "" {
		filters = append(filters, &Style{Value: p.FavStyle})
	}
	if p.HasBudget {
		filters = append(filters, &Budget{Ceiling: p.Budget, Enabled: true})
	}
	return filters
}
