package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/dressly/dresskit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("product", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是投放规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 运营在圈选广告候选时可以写 CEL 表达式，对商品/标签/请求上下文做任意布尔判断。
//
// 表达式语法（CEL 标准语法）：
//   - 商品字段：product.color == "Red" / product.price < 100.0
//   - 分数：item.score > 0.7
//   - 标签：label.recall_source.value == "hot"
//   - 请求：rctx.segment == 2
//   - 逻辑组合：product.category == "Party" && product.price <= 150.0
//
// 注意：has(label.key) 可以用 label.key != null 替代。
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式恒为 true（不限制）。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{}
	productMap := map[string]any{}

	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]any{
				"value":  v.Value,
				"source": v.Source,
			}
		}
		itemMap["id"] = e.item.ID
		itemMap["score"] = e.item.Score
		if p := e.item.Product; p != nil {
			productMap["id"] = p.ID
			productMap["title"] = p.Title
			productMap["category"] = p.Category
			productMap["color"] = p.Color
			productMap["price"] = p.Price
			if p.HasPopularity {
				productMap["popularity"] = p.Popularity
			}
			if p.HasRating {
				productMap["rating"] = p.Rating
			}
			if p.HasSegment {
				productMap["segment"] = p.Segment
			}
		}
	}

	rctxMap := map[string]any{}
	if e.rctx != nil {
		rctxMap["user_id"] = e.rctx.UserID
		rctxMap["segment"] = e.rctx.Segment
		for k, v := range e.rctx.Params {
			rctxMap[k] = v
		}
	}

	return map[string]any{
		"item":    itemMap,
		"product": productMap,
		"label":   labels,
		"rctx":    rctxMap,
	}
}
