// Package catalog 提供商品目录的只读快照。
//
// 目录由外部导出任务产出（CSV 或 Store 里的 JSON blob），推荐核心加载后
// 视为不可变快照：服务期间没有任何写路径，多个请求并发读无需加锁；
// 下一次批任务产出新快照时由调用方整体替换。
package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dressly/dresskit/core"
)

// Catalog 是商品目录的不可变快照。
// 可选列（popularity / rating / cluster）的有无在加载时一次性判定，
// 后续排序与客群限制按显式能力分支，不做逐行的隐式探测。
type Catalog struct {
	products    []*core.Product
	byID        map[int64]*core.Product
	signal      core.RankSignal
	hasSegments bool
}

// New 用现成的商品列表构建快照，并推导兜底排序信号与客群能力。
// popularity 优先于 rating（两者都有时按热度兜底）。
func New(products []*core.Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[int64]*core.Product, len(products)),
	}

	hasPopularity := len(products) > 0
	hasRating := len(products) > 0
	hasSegments := len(products) > 0
	for _, p := range products {
		c.byID[p.ID] = p
		hasPopularity = hasPopularity && p.HasPopularity
		hasRating = hasRating && p.HasRating
		hasSegments = hasSegments && p.HasSegment
	}

	switch {
	case hasPopularity:
		c.signal = core.SignalPopularity
	case hasRating:
		c.signal = core.SignalRating
	default:
		c.signal = core.SignalNone
	}
	c.hasSegments = hasSegments
	return c
}

// Products 返回快照中的全部商品。返回的切片与元素都不可修改。
func (c *Catalog) Products() []*core.Product {
	if c == nil {
		return nil
	}
	return c.products
}

// ByID 按商品 ID 查找。
func (c *Catalog) ByID(id int64) (*core.Product, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.byID[id]
	return p, ok
}

// Len 返回快照中的商品数。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Signal 返回快照可用的兜底排序信号。
func (c *Catalog) Signal() core.RankSignal {
	if c == nil {
		return core.SignalNone
	}
	return c.signal
}

// HasSegments 报告快照是否逐行携带客群标签。
// 这是一个配置点：标签可以在导出时 join 到商品行上（返回 true），
// 也可以完全不带、由调用方单独查分配表。
func (c *Catalog) HasSegments() bool {
	if c == nil {
		return false
	}
	return c.hasSegments
}

// LoadCSV 从目录导出 CSV 加载快照。
// 必需列：id, title, category, color, price；
// 可选列：popularity, rating, cluster —— 缺列仅关闭对应的排序/限制分支。
// 文件缺失返回 UNAVAILABLE，调用方据此降级而不是崩溃。
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: %v", err))
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: header: %v", err))
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"id", "title", "category", "color", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: missing column %q", required))
		}
	}

	var products []*core.Product
	for {
		rec, err := reader.Read()
		if err != nil {
			break
		}

		id, err := strconv.ParseInt(rec[cols["id"]], 10, 64)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(rec[cols["price"]], 64)
		if err != nil {
			continue
		}

		p := &core.Product{
			ID:       id,
			Title:    rec[cols["title"]],
			Category: rec[cols["category"]],
			Color:    rec[cols["color"]],
			Price:    price,
		}
		if i, ok := cols["popularity"]; ok {
			if v, err := strconv.ParseFloat(rec[i], 64); err == nil {
				p.Popularity, p.HasPopularity = v, true
			}
		}
		if i, ok := cols["rating"]; ok {
			if v, err := strconv.ParseFloat(rec[i], 64); err == nil {
				p.Rating, p.HasRating = v, true
			}
		}
		if i, ok := cols["cluster"]; ok {
			if v, err := strconv.Atoi(rec[i]); err == nil {
				p.Segment, p.HasSegment = v, true
			}
		}
		products = append(products, p)
	}

	return New(products), nil
}

// FromStore 从 Store 中的 JSON blob 加载快照（目录的远端副本）。
type productRecord struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Color      string   `json:"color"`
	Price      float64  `json:"price"`
	Popularity *float64 `json:"popularity,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Segment    *int     `json:"cluster,omitempty"`
}

func FromStore(ctx context.Context, s core.Store, key string) (*Catalog, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: %v", err))
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: decode: %v", err))
	}

	products := make([]*core.Product, 0, len(records))
	for _, rec := range records {
		p := &core.Product{
			ID:       rec.ID,
			Title:    rec.Title,
			Category: rec.Category,
			Color:    rec.Color,
			Price:    rec.Price,
		}
		if rec.Popularity != nil {
			p.Popularity, p.HasPopularity = *rec.Popularity, true
		}
		if rec.Rating != nil {
			p.Rating, p.HasRating = *rec.Rating, true
		}
		if rec.Segment != nil {
			p.Segment, p.HasSegment = *rec.Segment, true
		}
		products = append(products, p)
	}
	return New(products), nil
}

// SaveToStore 把快照序列化为 JSON blob 写入 Store（导出任务用）。
func (c *Catalog) SaveToStore(ctx context.Context, s core.Store, key string) error {
	records := make([]productRecord, 0, c.Len())
	for _, p := range c.products {
		rec := productRecord{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Color:    p.Color,
			Price:    p.Price,
		}
		if p.HasPopularity {
			v := p.Popularity
			rec.Popularity = &v
		}
		if p.HasRating {
			v := p.Rating
			rec.Rating = &v
		}
		if p.HasSegment {
			v := p.Segment
			rec.Segment = &v
		}
		records = append(records, rec)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	return s.Set(ctx, key, data)
}
