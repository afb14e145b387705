package rerank

import (
	"context"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，放在每条 Pipeline 的末尾，保证对外最多 N 条。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ModelNode{K: 20},   // 候选
//	        facetNode,                // facet 加权
//	        &rerank.TopNNode{N: 5},   // 截取 Top 5
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量；N <= 0 不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return truncate(items, n.N), nil
}
