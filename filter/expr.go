package filter

import (
	"context"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选被移除。
// 例如 `item.match < 1.0` 去掉几乎不可能的推荐。
type ExprFilter struct {
	expr *dsl.Expr
}

// NewExprFilter 编译表达式。
func NewExprFilter(expr string) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: e}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	return f.expr.Eval(item, rctx)
}
