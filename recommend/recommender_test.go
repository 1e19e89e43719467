package recommend

import (
	"context"
	"testing"

	"github.com/dressly/dresskit/catalog"
	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/feature"
	"github.com/dressly/dresskit/model"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]*core.Product{
		{ID: 1, Title: "Scarlet Gown", Category: "Party", Color: "Red", Price: 50},
		{ID: 2, Title: "Navy Suit", Category: "Formal", Color: "Blue", Price: 150},
		{ID: 3, Title: "Crimson Wrap", Category: "Party", Color: "Red", Price: 90},
	})
}

func popularityCatalog() *catalog.Catalog {
	return catalog.New([]*core.Product{
		{ID: 1, Color: "Red", Category: "Party", Price: 50, Popularity: 5, HasPopularity: true},
		{ID: 2, Color: "Blue", Category: "Formal", Price: 150, Popularity: 20, HasPopularity: true},
		{ID: 3, Color: "Red", Category: "Party", Price: 90, Popularity: 10, HasPopularity: true},
	})
}

func segmentCatalog() *catalog.Catalog {
	return catalog.New([]*core.Product{
		{ID: 1, Segment: 0, HasSegment: true, Color: "Red", Price: 50},
		{ID: 2, Segment: 1, HasSegment: true, Color: "Blue", Price: 150},
		{ID: 3, Segment: 1, HasSegment: true, Color: "Red", Price: 90},
	})
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestForUser_ColorFilter(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForUser(context.Background(), &Request{
		Prefs: &core.Preference{FavColor: "Red"},
	})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	for _, it := range out {
		if it.Product.Color != "Red" {
			t.Errorf("non-red product %d leaked through", it.ID)
		}
	}
	if len(out) != 2 {
		t.Errorf("got %d items, want 2", len(out))
	}
}

func TestForUser_Idempotent(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	req := &Request{History: []int64{1}}

	first, err := r.ForUser(context.Background(), req)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	second, err := r.ForUser(context.Background(), req)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if !equalIDs(ids(first), ids(second)) {
		t.Errorf("same request produced %v then %v", ids(first), ids(second))
	}
}

func TestForUser_EmptyHistoryDeterministicShuffle(t *testing.T) {
	// 目录没有人气/评分列，兜底走固定种子洗牌，两次调用顺序一致
	r := &Recommender{Catalog: testCatalog()}

	first, err := r.ForUser(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	second, err := r.ForUser(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if !equalIDs(ids(first), ids(second)) {
		t.Errorf("shuffle not reproducible: %v vs %v", ids(first), ids(second))
	}
}

func TestForUser_BudgetFilter(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForUser(context.Background(), &Request{
		Prefs: &core.Preference{Budget: 100, HasBudget: true},
	})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	for _, it := range out {
		if it.Product.Price > 100 {
			t.Errorf("product %d priced %v exceeds budget", it.ID, it.Product.Price)
		}
	}
	if len(out) != 2 {
		t.Errorf("got %d items, want 2", len(out))
	}
}

func TestForUser_EmptyFilteredSetReturnsEmpty(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForUser(context.Background(), &Request{
		Prefs: &core.Preference{FavColor: "Chartreuse"},
	})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %v, want empty result without relaxing filters", ids(out))
	}
}

func TestForUser_ContentRankingPrefersSimilar(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForUser(context.Background(), &Request{History: []int64{1}})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	// 与历史同色同品类的 3 应排在不相似的 2 之前
	pos := map[int64]int{}
	for i, it := range out {
		pos[it.ID] = i
	}
	if pos[3] > pos[2] {
		t.Errorf("order = %v, want 3 before 2", ids(out))
	}
}

func TestForUser_HistoryFilteredOutFallsBack(t *testing.T) {
	// 历史商品 2 是蓝色，颜色过滤后不在候选集里，应降级到人气排序而不是报错
	r := &Recommender{Catalog: popularityCatalog()}
	out, err := r.ForUser(context.Background(), &Request{
		History: []int64{2},
		Prefs:   &core.Preference{FavColor: "Red"},
	})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if !equalIDs(ids(out), []int64{3, 1}) {
		t.Errorf("order = %v, want popularity order [3 1]", ids(out))
	}
}

func TestForUser_SegmentRestriction(t *testing.T) {
	segments := model.NewSegmentTable(map[int64]int{7: 1})
	r := &Recommender{Catalog: segmentCatalog(), Segments: segments}

	out, err := r.ForUser(context.Background(), &Request{UserID: 7})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	for _, it := range out {
		if it.Product.Segment != 1 {
			t.Errorf("product %d from segment %d leaked through", it.ID, it.Product.Segment)
		}
	}
	if len(out) != 2 {
		t.Errorf("got %d items, want 2", len(out))
	}
}

func TestForUser_UnknownSegmentSkipsRestriction(t *testing.T) {
	r := &Recommender{Catalog: segmentCatalog()}
	out, err := r.ForUser(context.Background(), &Request{UserID: 99})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d items, want all 3 without segment restriction", len(out))
	}
}

type fixedProfiles struct {
	profile *core.CustomerProfile
}

func (p *fixedProfiles) Profile(_ context.Context, _ int64) (*core.CustomerProfile, error) {
	return p.profile, nil
}

func TestForUser_ProfileProviderPredictsSegment(t *testing.T) {
	// 两个可分的质心：画像服务返回的画像应命中第 1 个质心对应客群
	m := &model.SegmentModel{
		Features: core.ProfileFeatureNames(),
		Scaler:   identityScaler(3),
		Centroids: [][]float64{
			{0, 0, 0},
			{100, 100, 100},
		},
	}
	segments := model.NewSegmentTable(nil)
	provider := &fixedProfiles{profile: &core.CustomerProfile{Age: 99, AnnualIncome: 99, SpendingScore: 99}}

	r := &Recommender{
		Catalog:  segmentCatalog(),
		Model:    m,
		Segments: segments,
		Profiles: provider,
	}

	out, err := r.ForUser(context.Background(), &Request{UserID: 42})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	for _, it := range out {
		if it.Product.Segment != 1 {
			t.Errorf("product %d not in predicted segment 1", it.ID)
		}
	}
}

func TestForUser_TopNDefault(t *testing.T) {
	products := make([]*core.Product, 10)
	for i := range products {
		products[i] = &core.Product{ID: int64(i + 1), Price: float64(i)}
	}
	r := &Recommender{Catalog: catalog.New(products)}

	out, err := r.ForUser(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(out) != 6 {
		t.Errorf("got %d items, want default top 6", len(out))
	}

	out, err = r.ForUser(context.Background(), &Request{TopN: 1})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("got %d items, want 1", len(out))
	}
}

func TestForUser_EmptyCatalog(t *testing.T) {
	r := &Recommender{Catalog: catalog.New(nil)}
	if _, err := r.ForUser(context.Background(), &Request{}); !core.IsUnavailable(err) {
		t.Errorf("err = %v, want UNAVAILABLE", err)
	}
}

func TestForSegment(t *testing.T) {
	r := &Recommender{Catalog: segmentCatalog()}
	out, err := r.ForSegment(context.Background(), &AdRequest{Segment: 1, HasSegment: true})
	if err != nil {
		t.Fatalf("ForSegment() error = %v", err)
	}
	for _, it := range out {
		if it.Product.Segment != 1 {
			t.Errorf("product %d outside target segment", it.ID)
		}
	}
	if len(out) != 2 {
		t.Errorf("got %d items, want 2", len(out))
	}
}

func TestForSegment_PriceRangeInclusive(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForSegment(context.Background(), &AdRequest{
		PriceMin: 50, PriceMax: 90, HasPrice: true,
	})
	if err != nil {
		t.Fatalf("ForSegment() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %v, want ids 1 and 3 (inclusive bounds)", ids(out))
	}
}

func TestForSegment_DefaultTopN(t *testing.T) {
	products := make([]*core.Product, 8)
	for i := range products {
		products[i] = &core.Product{ID: int64(i + 1)}
	}
	r := &Recommender{Catalog: catalog.New(products)}

	out, err := r.ForSegment(context.Background(), &AdRequest{})
	if err != nil {
		t.Fatalf("ForSegment() error = %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d items, want default top 3", len(out))
	}
}

func TestForSegment_RuleExpression(t *testing.T) {
	r := &Recommender{Catalog: testCatalog()}
	out, err := r.ForSegment(context.Background(), &AdRequest{
		Rule: `product.price < 100.0`,
		TopN: 10,
	})
	if err != nil {
		t.Fatalf("ForSegment() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %v, want the two products under 100", ids(out))
	}
}

func identityScaler(dim int) feature.ScalerParams {
	mean := make([]float64, dim)
	std := make([]float64, dim)
	for i := range std {
		std[i] = 1
	}
	return feature.ScalerParams{Mean: mean, Std: std}
}
