package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/utils"
)

// DefaultLimit 是对外返回的推荐条数上限。
const DefaultLimit = 5

// FacetNode 按用户选择的 facet（行业 / 项目类型 / 课程方向）对候选打分、加权、过滤。
//
//   - 标题命中 facet 关键词（得分 > 0）的候选按 Boost 加权
//   - 按 (得分降序, 加权后 match 降序) 排序，只保留得分 > 0 的，截断到 Limit
//   - 没有任何候选命中时：EmptyAsError 为 false 回退到未加权的前 Limit 个；
//     为 true 返回 core.ErrNoProgramsMatched
//   - facet 为空或不在 Table 中视为未选择，直接返回前 Limit 个
type FacetNode struct {
	Table        FacetTable
	Boost        BoostConfig
	Limit        int
	EmptyAsError bool
}

// NewFacetNode 返回 pathway 的默认 facet 配置。
func NewFacetNode(p core.Pathway) (*FacetNode, error) {
	switch p {
	case core.PathwayCareer:
		return &FacetNode{Table: CareerIndustries, Boost: CareerBoost, Limit: DefaultLimit}, nil
	case core.PathwayTESDA:
		return &FacetNode{Table: TESDACourses, Boost: TESDABoost, Limit: DefaultLimit}, nil
	case core.PathwayEducation:
		return &FacetNode{Table: EducationProgramTypes, Boost: EducationBoost, Limit: DefaultLimit, EmptyAsError: true}, nil
	}
	return nil, core.ErrUnknownPathway
}

func (n *FacetNode) Name() string        { return "rerank.facet" }
func (n *FacetNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *FacetNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	facet := ""
	if rctx != nil && rctx.Answers != nil {
		facet = rctx.Answers.Facet()
	}
	kw, ok := n.Table.Lookup(facet)
	if !ok {
		return truncate(items, limit), nil
	}
	return n.apply(facet, kw, items, limit)
}

func (n *FacetNode) apply(facet string, kw Keywords, items []*core.Item, limit int) ([]*core.Item, error) {
	matched := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		score := kw.Score(it.Title)
		if score <= 0 {
			continue
		}
		// 在副本上加权，未命中时的回退结果保持原样
		c := it.Clone()
		c.FacetScore = score
		c.Match = n.Boost.Apply(it.Match, score)
		c.PutLabel("facet", utils.Label{Value: facet, Source: "rerank"})
		c.PutLabel("facet_score", utils.IntLabel(score, "rerank"))
		if c.Match != it.Match {
			c.PutLabel("boosted", utils.Label{
				Value:  fmt.Sprintf("%.1f->%.1f", it.Match, c.Match),
				Source: "rerank",
			})
		}
		matched = append(matched, c)
	}

	if len(matched) == 0 {
		if n.EmptyAsError {
			return nil, core.ErrNoProgramsMatched
		}
		return truncate(items, limit), nil
	}

	sortByFacet(matched)
	return truncate(matched, limit), nil
}

// sortByFacet 按 (FacetScore 降序, Match 降序) 稳定排序。
func sortByFacet(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FacetScore != items[j].FacetScore {
			return items[i].FacetScore > items[j].FacetScore
		}
		return items[i].Match > items[j].Match
	})
}

func truncate(items []*core.Item, n int) []*core.Item {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
