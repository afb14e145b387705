package rank

import (
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
)

// Engine 在 Registry 之上按 pathway 名称排序。
// 未知 pathway 或尚未加载的模型包返回空列表，调用方把空列表视为“暂无推荐”。
type Engine struct {
	Registry *model.Registry
}

func (e *Engine) PredictTopK(pathway string, features map[string]string, k int) ([]*core.Item, error) {
	p, ok := core.ParsePathway(pathway)
	if !ok || e.Registry == nil {
		return []*core.Item{}, nil
	}
	b, ok := e.Registry.Get(p)
	if !ok {
		return []*core.Item{}, nil
	}
	return PredictTopK(b, features, k)
}
