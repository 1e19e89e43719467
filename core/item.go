package core

import "github.com/dressly/dresskit/pkg/utils"

// Item 是推荐链路中的统一承载结构：商品、分数、标签。
// Product 指向目录快照中的只读记录；Score 用于排序决策；
// Labels 用于解释与策略驱动（召回来源、过滤原因、排序策略等）。
type Item struct {
	ID      int64
	Score   float64
	Product *Product
	Labels  map[string]utils.Label
}

// NewItem 以目录中的商品记录构建一个链路 Item。
func NewItem(p *Product) *Item {
	it := &Item{
		Labels: make(map[string]utils.Label),
	}
	if p != nil {
		it.ID = p.ID
		it.Product = p
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
