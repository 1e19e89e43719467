package dsl

import (
	"testing"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem(&core.Product{
		ID:        1,
		Title:     "Scarlet Gown",
		Category:  "Party",
		Color:     "Red",
		Price:     89,
		Rating:    4.5,
		HasRating: true,
	})
	it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
	return it
}

func TestEvaluate(t *testing.T) {
	rctx := &core.RecommendContext{UserID: 1001, Segment: 2}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty expr always true", "", true},
		{"product field", `product.color == "Red"`, true},
		{"price compare", `product.price < 100.0`, true},
		{"optional field present", `product.rating >= 4.0`, true},
		{"logical and", `product.category == "Party" && product.price <= 150.0`, true},
		{"label access", `label.recall_source.value == "hot"`, true},
		{"rctx segment", `rctx.segment == 2`, true},
		{"false branch", `product.color == "Blue"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(testItem(), rctx).Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	e := NewEval(testItem(), nil)

	if _, err := e.Evaluate(`product.color ==`); err == nil {
		t.Error("expected compile error")
	}
	if _, err := e.Evaluate(`product.price`); err == nil {
		t.Error("expected non-boolean result error")
	}
}
