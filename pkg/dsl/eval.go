package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/pathwise/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expr 是编译好的 Label DSL 表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可被多个请求并发求值。
//
// 可用变量：
//   - item.title / item.match / item.facet_score / item.meta.<列名>
//   - label.<key>：Label 的取值，例如 label.rank_model == "naive_bayes"
//   - rctx.pathway / rctx.user_id / rctx.features.<特征名> / rctx.facet
//
// 示例：
//   - `item.match < 1.0` → 概率过低的候选
//   - `item.meta.growth == "Low"` → 目录中标记为低成长的职位
//   - `rctx.pathway == "tesda" && item.title.contains("NC III")`
//
// 访问不存在的 key 会报错，可先用 `"growth" in item.meta` 判断。
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

func (e *Expr) String() string { return e.src }

// Eval 对一个候选求值。
func (e *Expr) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式；空表达式为 true。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	e, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return e.Eval(item, rctx)
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemInput := map[string]any{}
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
		meta := make(map[string]any, len(item.Meta))
		for k, v := range item.Meta {
			meta[k] = v
		}
		itemInput = map[string]any{
			"title":       item.Title,
			"match":       item.Match,
			"facet_score": int64(item.FacetScore),
			"meta":        meta,
		}
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		features := make(map[string]any, len(rctx.Features))
		for k, v := range rctx.Features {
			features[k] = v
		}
		facet := ""
		if rctx.Answers != nil {
			facet = rctx.Answers.Facet()
		}
		rctxInput = map[string]any{
			"user_id":  int64(rctx.UserID),
			"pathway":  string(rctx.Pathway),
			"features": features,
			"facet":    facet,
		}
	}

	return map[string]any{
		"item":  itemInput,
		"label": labels,
		"rctx":  rctxInput,
	}
}
