package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/pathwise/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：normalize -> rank -> filter -> rerank。
type Pipeline struct {
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			if core.IsDomainError(err) {
				return nil, err
			}
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
