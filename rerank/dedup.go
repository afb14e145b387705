package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
)

// DedupNode 去掉重复的推荐（保留首个出现的）。
// 去重 key 的来源优先级：
//   - Key 为空：标题（大小写不敏感）
//   - label[Key].Value
//   - meta[Key]
//
// key 为空的候选总是保留。
type DedupNode struct {
	Key string
}

func (n *DedupNode) Name() string {
	return "rerank.dedup"
}

func (n *DedupNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DedupNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, len(items))
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		key := n.keyOf(it)
		if key == "" {
			out = append(out, it)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}

	return out, nil
}

func (n *DedupNode) keyOf(it *core.Item) string {
	if n.Key == "" {
		return strings.ToLower(strings.TrimSpace(it.Title))
	}
	if lbl, ok := it.Labels[n.Key]; ok && lbl.Value != "" {
		return lbl.Value
	}
	return it.Meta[n.Key]
}
