package rerank

import (
	"context"
	"testing"

	"github.com/dressly/dresskit/core"
)

func newItems(products ...*core.Product) []*core.Item {
	items := make([]*core.Item, len(products))
	for i, p := range products {
		items[i] = core.NewItem(p)
	}
	return items
}

func TestTopNNode(t *testing.T) {
	items := newItems(
		&core.Product{ID: 1},
		&core.Product{ID: 2},
		&core.Product{ID: 3},
	)

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"truncate", 2, 2},
		{"no truncation when zero", 0, 3},
		{"n larger than set", 10, 3},
		{"min one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestClampTopN(t *testing.T) {
	tests := []struct {
		in   int
		def  int
		want int
	}{
		{0, DefaultUserTopN, 6},
		{-3, DefaultAdTopN, 3},
		{1, DefaultUserTopN, 1},
		{12, DefaultUserTopN, 12},
	}
	for _, tt := range tests {
		if got := ClampTopN(tt.in, tt.def); got != tt.want {
			t.Errorf("ClampTopN(%d, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestDiversity_KeepsFirstPerCategory(t *testing.T) {
	items := newItems(
		&core.Product{ID: 1, Category: "Party"},
		&core.Product{ID: 2, Category: "Party"},
		&core.Product{ID: 3, Category: "Formal"},
		&core.Product{ID: 4},
	)

	node := &Diversity{}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got := make([]int64, len(out))
	for i, it := range out {
		got[i] = it.ID
	}
	want := []int64{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}
