package feature

import (
	"math"

	"github.com/dressly/dresskit/core"
)

// priceEpsilon 防止候选集中所有价格相等时除零。
const priceEpsilon = 1e-6

// ProductVectors 把一组商品编码为数值特征向量，输出与输入逐行对齐。
//
// 编码规则：
//   - color / category 各按“本次输入中出现过的取值”做 one-hot，
//     指示列的词表不是全局固定的，而是每次调用从候选集现算
//   - price 线性缩放到 [0,1]：(price - min) / (max - min + ε)
//
// 推论：特征向量只在同一次调用的候选集内可比（词表和价格区间都按
// 本次候选集计算）。这是有意的简化，不是缓存好的全局 embedding。
func ProductVectors(products []*core.Product) []map[string]float64 {
	if len(products) == 0 {
		return nil
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, p := range products {
		if p == nil {
			continue
		}
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}
	priceRange := maxPrice - minPrice + priceEpsilon

	out := make([]map[string]float64, len(products))
	for i, p := range products {
		if p == nil {
			out[i] = map[string]float64{}
			continue
		}
		vec := make(map[string]float64, 3)
		if p.Color != "" {
			vec["color_"+p.Color] = 1.0
		}
		if p.Category != "" {
			vec["cat_"+p.Category] = 1.0
		}
		vec["price_norm"] = (p.Price - minPrice) / priceRange
		out[i] = vec
	}
	return out
}

// Cosine 计算两个稀疏特征向量的余弦相似度，结果落在 [-1, 1]。
// 任一向量为零向量时返回 0。
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for k, va := range a {
		normA += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
