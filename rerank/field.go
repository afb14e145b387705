package rerank

import (
	"context"
	"math"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/utils"
)

// secondaryFaceted 由带二级 facet 的答案实现（目前只有继续教育路径）。
type secondaryFaceted interface {
	SecondaryFacet() string
}

// FieldNode 按二级 facet（兴趣领域）在已过滤的候选上再做一次筛选：
// 有候选命中时只保留命中者并各加 Bonus 分（不超过 MaxMatch）；一个都没命中则原样返回。
type FieldNode struct {
	Table    FacetTable
	Bonus    float64
	MaxMatch float64
}

func NewFieldNode() *FieldNode {
	return &FieldNode{Table: EducationFields, Bonus: 5, MaxMatch: 95}
}

func (n *FieldNode) Name() string        { return "rerank.field" }
func (n *FieldNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *FieldNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || len(items) == 0 {
		return items, nil
	}
	sf, ok := rctx.Answers.(secondaryFaceted)
	if !ok {
		return items, nil
	}
	field := sf.SecondaryFacet()
	kw, ok := n.Table.Lookup(field)
	if !ok {
		return items, nil
	}

	matched := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil && kw.Score(it.Title) > 0 {
			matched = append(matched, it)
		}
	}
	if len(matched) == 0 {
		return items, nil
	}

	for _, it := range matched {
		if it.Match < n.MaxMatch {
			before := it.Match
			it.Match = math.Round(math.Min(it.Match+n.Bonus, n.MaxMatch)*10) / 10
			it.PutLabel("field_bonus", utils.FloatLabel(it.Match-before, "rerank"))
		}
		it.PutLabel("field", utils.Label{Value: field, Source: "rerank"})
	}
	sortByFacet(matched)
	return matched, nil
}
