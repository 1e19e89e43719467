package filter

import (
	"context"
	"testing"

	"github.com/dressly/dresskit/core"
)

func testItems() []*core.Item {
	products := []*core.Product{
		{ID: 1, Color: "Red", Category: "Party", Price: 50},
		{ID: 2, Color: "Blue", Category: "Formal", Price: 150},
		{ID: 3, Color: "red", Category: "Formal", Price: 90},
	}
	items := make([]*core.Item, len(products))
	for i, p := range products {
		items[i] = core.NewItem(p)
	}
	return items
}

func runNode(t *testing.T, filters ...Filter) []int64 {
	t.Helper()
	n := &Node{Filters: filters}
	out, err := n.Process(context.Background(), &core.RecommendContext{}, testItems())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	ids := make([]int64, len(out))
	for i, it := range out {
		ids[i] = it.ID
	}
	return ids
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

func TestColorFilter_CaseInsensitive(t *testing.T) {
	ids := runNode(t, &Color{Value: "RED"})
	if !equalIDs(ids, []int64{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}

func TestBudgetFilter(t *testing.T) {
	// budget=100，价格 [50,150,90] 只有 <=100 的存活
	ids := runNode(t, &Budget{Ceiling: 100, Enabled: true})
	if !equalIDs(ids, []int64{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", ids)
	}

	// 未启用预算时不过滤
	ids = runNode(t, &Budget{Ceiling: 0})
	if len(ids) != 3 {
		t.Errorf("disabled budget filtered to %v", ids)
	}
}

func TestFilterComposition_Commutative(t *testing.T) {
	forward := runNode(t, &Color{Value: "Red"}, &Style{Value: "Formal"})
	backward := runNode(t, &Style{Value: "Formal"}, &Color{Value: "Red"})
	if !equalIDs(forward, backward) {
		t.Errorf("order matters: %v vs %v", forward, backward)
	}
	if !equalIDs(forward, []int64{3}) {
		t.Errorf("ids = %v, want [3]", forward)
	}
}

func TestFilter_AbsentValueYieldsEmptySet(t *testing.T) {
	// 目录里不存在的颜色：结果为空集，不放宽过滤条件
	ids := runNode(t, &Color{Value: "Chartreuse"})
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestPriceRangeFilter_InclusiveBounds(t *testing.T) {
	ids := runNode(t, &PriceRange{Min: 50, Max: 90})
	if !equalIDs(ids, []int64{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}

func TestSegmentFilter(t *testing.T) {
	products := []*core.Product{
		{ID: 1, Segment: 2, HasSegment: true},
		{ID: 2, Segment: 1, HasSegment: true},
		{ID: 3}, // 无客群标签
	}
	items := make([]*core.Item, len(products))
	for i, p := range products {
		items[i] = core.NewItem(p)
	}

	n := &Node{Filters: []Filter{&Segment{Target: 2}}}
	out, err := n.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("out = %v, want only id 1", out)
	}
}

func TestFromPreference(t *testing.T) {
	tests := []struct {
		name string
		pref *core.Preference
		want int
	}{
		{"nil preference", nil, 0},
		{"color only", &core.Preference{FavColor: "Red"}, 1},
		{"all fields", &core.Preference{FavColor: "Red", FavStyle: "Party", Budget: 100, HasBudget: true}, 3},
		{"budget unset", &core.Preference{Budget: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(FromPreference(tt.pref)); got != tt.want {
				t.Errorf("len(FromPreference()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilteredLabelRecordsReason(t *testing.T) {
	items := testItems()
	n := &Node{Filters: []Filter{&Color{Value: "Blue"}}}
	if _, err := n.Process(context.Background(), &core.RecommendContext{}, items); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	lbl, ok := items[0].Labels["filtered"]
	if !ok || lbl.Source != "filter.color" {
		t.Errorf("filtered label = %+v", lbl)
	}
}
