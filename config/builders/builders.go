// Package builders 注册所有内置 Node 的配置构建逻辑。
// 以空导入方式使用：import _ "github.com/dressly/dresskit/config/builders"
package builders

import (
	"fmt"
	"time"

	"github.com/dressly/dresskit/catalog"
	"github.com/dressly/dresskit/config"
	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/filter"
	"github.com/dressly/dresskit/pipeline"
	"github.com/dressly/dresskit/pkg/conv"
	"github.com/dressly/dresskit/rank"
	"github.com/dressly/dresskit/recall"
	"github.com/dressly/dresskit/rerank"
	"github.com/dressly/dresskit/store"
)

func init() {
	config.Register("recall.catalog", BuildCatalogNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter.preference", BuildPreferenceNode)
	config.Register("filter.rule", BuildRuleNode)
	config.Register("rank.content", BuildContentNode)
	config.Register("rank.fallback", BuildFallbackNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildCatalogNode 构建目录全量召回源。config:
//
//	path: 商品目录 CSV 路径
func BuildCatalogNode(cfg map[string]any) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("recall.catalog: path not set")
	}
	c, err := catalog.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return &recall.CatalogSource{Catalog: c}, nil
}

// BuildHotNode 构建热门榜召回源。config:
//
//	addr: 可选的 Redis 地址，设置时从有序集合读取榜单
//	db:   Redis 库号
//	key:  榜单 key，例如 "hot:products"
//	top_k: 读取数量
//	ids:  fallback 商品 ID 列表
//	path: 可选的目录 CSV，用于把召回到的 ID 解析为商品
func BuildHotNode(cfg map[string]any) (pipeline.Node, error) {
	node := &recall.Hot{
		Key:  conv.ConfigGet(cfg, "key", ""),
		IDs:  conv.SliceAnyToInt64(cfg["ids"]),
		TopK: conv.ConfigGetInt(cfg, "top_k", 0),
	}
	if addr := conv.ConfigGet(cfg, "addr", ""); addr != "" {
		s, err := store.NewRedisStore(addr, conv.ConfigGetInt(cfg, "db", 0))
		if err != nil {
			return nil, err
		}
		node.Store = s
	}
	if path := conv.ConfigGet(cfg, "path", ""); path != "" {
		c, err := catalog.LoadCSV(path)
		if err != nil {
			return nil, err
		}
		node.Catalog = c
	}
	return node, nil
}

// BuildFanoutNode 构建多路召回。config:
//
//	sources: 子召回源配置列表，每项带 type 字段（hot / catalog）
//	dedup:   是否按商品 ID 去重，默认 true
//	timeout: 单个召回源的超时秒数
func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("recall.fanout: sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "hot":
			node, err := BuildHotNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Hot))
		case "catalog":
			node, err := BuildCatalogNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.CatalogSource))
		default:
			return nil, fmt.Errorf("recall.fanout: unknown source type %q", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}

// BuildPreferenceNode 构建偏好过滤。config:
//
//	color: 颜色相等过滤
//	style: 品类相等过滤
//	budget: 价格上限（设置即启用）
func BuildPreferenceNode(cfg map[string]any) (pipeline.Node, error) {
	pref := &core.Preference{
		FavColor: conv.ConfigGet(cfg, "color", ""),
		FavStyle: conv.ConfigGet(cfg, "style", ""),
	}
	if _, ok := cfg["budget"]; ok {
		pref.Budget = conv.ConfigGetFloat(cfg, "budget", 0)
		pref.HasBudget = true
	}
	return &filter.Node{Filters: filter.FromPreference(pref)}, nil
}

// BuildRuleNode 构建 CEL 规则过滤。config:
//
//	expr: CEL 保留条件表达式，例如 product.price < 100.0
func BuildRuleNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("filter.rule: expr not set")
	}
	return &filter.Node{Filters: []filter.Filter{&filter.Rule{Expr: expr}}}, nil
}

// BuildContentNode 构建内容相似排序，无配置项。
func BuildContentNode(_ map[string]any) (pipeline.Node, error) {
	return &rank.ContentNode{}, nil
}

// BuildFallbackNode 构建兜底排序。config:
//
//	signal: popularity / rating / none（默认 none，走固定种子洗牌）
//	seed:   洗牌种子
func BuildFallbackNode(cfg map[string]any) (pipeline.Node, error) {
	node := &rank.FallbackNode{Seed: int64(conv.ConfigGetInt(cfg, "seed", 0))}
	switch signal := conv.ConfigGet(cfg, "signal", "none"); signal {
	case "popularity":
		node.Signal = core.SignalPopularity
	case "rating":
		node.Signal = core.SignalRating
	case "none", "":
		node.Signal = core.SignalNone
	default:
		return nil, fmt.Errorf("rank.fallback: unknown signal %q", signal)
	}
	return node, nil
}

// BuildTopNNode 构建 Top-N 截断。config:
//
//	n: 保留数量，默认 rerank.DefaultUserTopN
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", rerank.DefaultUserTopN)}, nil
}

// BuildDiversityNode 构建按品类去重的多样性重排，无配置项。
func BuildDiversityNode(_ map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{}, nil
}
