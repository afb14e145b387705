package filter

import (
	"context"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/pkg/metrics"
	"github.com/rushteam/pathwise/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 单个过滤器出错时跳过该过滤器并记录日志与指标，不中断推荐。
type FilterNode struct {
	Filters []Filter
	Log     *logger.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) logger() *logger.Logger {
	if n.Log == nil {
		return logger.NewNop()
	}
	return n.Log
}

// failed 记录本次 Process 中出错的过滤器：同一个过滤器只记一次日志。
func (n *FilterNode) failed(seen map[string]bool, f Filter, err error) {
	metrics.FilterErrors.WithLabelValues(f.Name()).Inc()
	if seen[f.Name()] {
		return
	}
	seen[f.Name()] = true
	n.logger().Warn("filter skipped", "filter", f.Name(), "error", err)
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool)
	filters := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		p, ok := f.(Preparer)
		if !ok {
			filters = append(filters, f)
			continue
		}
		prepared, err := p.Prepare(ctx, rctx)
		if err != nil {
			n.failed(seen, f, err)
			continue
		}
		filters = append(filters, prepared)
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		filterReason := ""
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				n.failed(seen, f, err)
				continue
			}
			if ok {
				filterReason = f.Name()
				break
			}
		}
		if filterReason != "" {
			// 记录过滤原因，用于 explain
			item.PutLabel("filtered", utils.Label{Value: "true", Source: filterReason})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
