// Package recommend 是推荐编排层：组装召回、过滤、排序、截断各节点，
// 对外提供面向用户的推荐和面向运营的客群广告圈选两个入口。
//
// 编排层对目录与模型只读，不回写任何共享状态。同一输入的两次调用
// 产出相同结果。
package recommend

import (
	"context"
	"strconv"

	"github.com/dressly/dresskit/catalog"
	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/filter"
	"github.com/dressly/dresskit/model"
	"github.com/dressly/dresskit/pkg/utils"
	"github.com/dressly/dresskit/rank"
	"github.com/dressly/dresskit/recall"
	"github.com/dressly/dresskit/rerank"
)

// ProfileProvider 按用户 id 拉取画像特征（年龄、年收入、消费评分），
// 用于没有预计算客群标签时的在线客群预测。实现见 feast 包。
type ProfileProvider interface {
	Profile(ctx context.Context, userID int64) (*core.CustomerProfile, error)
}

// Request 是一次面向用户的推荐请求。
type Request struct {
	UserID  int64
	Profile *core.CustomerProfile
	History []int64
	Prefs   *core.Preference
	// TopN 小于 1 时使用默认值
	TopN int
}

// AdRequest 是一次面向运营的客群广告圈选请求，没有用户历史输入。
type AdRequest struct {
	Segment    int
	HasSegment bool
	Style      string
	Color      string
	PriceMin   float64
	PriceMax   float64
	HasPrice   bool
	// Rule 是可选的 CEL 圈选表达式，为空时跳过
	Rule string
	TopN int
}

// Recommender 持有推荐所需的只读状态。Model、Segments、Profiles
// 均可为 nil，缺失时按降级路径处理而不是报错。
type Recommender struct {
	Catalog  *catalog.Catalog
	Model    *model.SegmentModel
	Segments *model.SegmentTable
	Profiles ProfileProvider
	// ShuffleSeed 兜底洗牌种子，<=0 时使用 rank.DefaultShuffleSeed
	ShuffleSeed int64
}

// ForUser 为一个用户产出排序后的推荐列表。
// 流程：解析客群 -> 偏好过滤 -> 客群限制 -> 内容打分或兜底排序 -> 截断。
// 过滤后候选集为空时返回空列表，不放宽过滤条件。
func (r *Recommender) ForUser(ctx context.Context, req *Request) ([]*core.Item, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput, "request is nil")
	}

	segment := r.resolveSegment(ctx, req)

	rctx := &core.RecommendContext{
		UserID:  req.UserID,
		Profile: req.Profile,
		History: req.History,
		Prefs:   req.Prefs,
		Segment: segment,
	}
	rctx.PutLabel("segment", utils.Label{Value: strconv.Itoa(segment), Source: "recommend"})

	filters := filter.FromPreference(req.Prefs)
	if segment != core.SegmentUnknown && r.Catalog.HasSegments() {
		filters = append(filters, &filter.Segment{Target: segment})
	}

	items, err := r.run(ctx, rctx, filters, len(req.History) > 0, rerank.ClampTopN(req.TopN, rerank.DefaultUserTopN))
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ForSegment 为运营圈选一个客群的广告候选。没有历史输入，
// 排序永远走人气/评分/固定种子洗牌的兜底链。
func (r *Recommender) ForSegment(ctx context.Context, req *AdRequest) ([]*core.Item, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput, "request is nil")
	}

	rctx := &core.RecommendContext{Segment: core.SegmentUnknown}

	var filters []filter.Filter
	if req.HasSegment && r.Catalog.HasSegments() {
		rctx.Segment = req.Segment
		filters = append(filters, &filter.Segment{Target: req.Segment})
	}
	if req.Style != "" {
		filters = append(filters, &filter.Style{Value: req.Style})
	}
	if req.Color != "" {
		filters = append(filters, &filter.Color{Value: req.Color})
	}
	if req.HasPrice {
		filters = append(filters, &filter.PriceRange{Min: req.PriceMin, Max: req.PriceMax})
	}
	if req.Rule != "" {
		filters = append(filters, &filter.Rule{Expr: req.Rule})
	}

	return r.run(ctx, rctx, filters, false, rerank.ClampTopN(req.TopN, rerank.DefaultAdTopN))
}

// run 执行召回、过滤、排序、截断。useContent 为 true 时优先尝试内容打分，
// 不适用（候选集里没有任何历史商品）时降级到兜底排序。
func (r *Recommender) run(
	ctx context.Context,
	rctx *core.RecommendContext,
	filters []filter.Filter,
	useContent bool,
	topN int,
) ([]*core.Item, error) {
	source := &recall.CatalogSource{Catalog: r.Catalog}
	items, err := source.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}

	filterNode := &filter.Node{Filters: filters}
	items, err = filterNode.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*core.Item{}, nil
	}

	ranked := items
	if useContent {
		content := &rank.ContentNode{}
		ranked, err = content.Process(ctx, rctx, items)
		if core.IsNotApplicable(err) {
			ranked, err = r.fallback(ctx, rctx, items)
		}
	} else {
		ranked, err = r.fallback(ctx, rctx, items)
	}
	if err != nil {
		return nil, err
	}

	topn := &rerank.TopNNode{N: topN}
	return topn.Process(ctx, rctx, ranked)
}

func (r *Recommender) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	node := &rank.FallbackNode{Signal: r.Catalog.Signal(), Seed: r.ShuffleSeed}
	return node.Process(ctx, rctx, items)
}

// resolveSegment 按优先级解析用户客群：
// 预计算标签表 -> 请求画像在线预测 -> 画像服务拉取后预测 -> 未知。
// 模型或画像服务不可用时按降级处理，返回未知而不是报错。
func (r *Recommender) resolveSegment(ctx context.Context, req *Request) int {
	if r.Segments != nil && req.UserID != 0 {
		if seg, ok := r.Segments.Lookup(req.UserID); ok {
			return seg
		}
	}

	if r.Model == nil {
		return core.SegmentUnknown
	}

	profile := req.Profile
	if profile == nil && r.Profiles != nil && req.UserID != 0 {
		p, err := r.Profiles.Profile(ctx, req.UserID)
		if err == nil {
			profile = p
		}
	}
	if profile == nil {
		return core.SegmentUnknown
	}

	seg, err := r.Model.Predict(profile)
	if err != nil {
		return core.SegmentUnknown
	}
	return seg
}
