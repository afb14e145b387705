package builders

import (
	"fmt"

	"github.com/rushteam/pathwise/config"
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/feature"
	"github.com/rushteam/pathwise/filter"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/conv"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/rank"
	"github.com/rushteam/pathwise/rerank"
)

func init() {
	config.Register("feature.normalize", BuildNormalizeNode)
	config.Register("rank.model", BuildModelNode)
	config.Register("filter", NewFilterBuilder(nil, "", nil))
	config.Register("filter.eligibility", BuildEligibilityNode)
	config.Register("rerank.facet", BuildFacetNode)
	config.Register("rerank.field", BuildFieldNode)
	config.Register("rerank.dedup", BuildDedupNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildNormalizeNode(cfg map[string]any) (pipeline.Node, error) {
	return &feature.NormalizeNode{Normalizer: feature.NewNormalizer(nil)}, nil
}

func BuildModelNode(cfg map[string]any) (pipeline.Node, error) {
	k := conv.ConfigGetInt(cfg, "k", rank.DefaultK)
	if k <= 0 {
		return nil, fmt.Errorf("rank.model: k must be positive, got %d", k)
	}
	return &rank.ModelNode{K: k}, nil
}

// NewFilterBuilder 返回 filter 节点的构建器。store 非 nil 时 blacklist 过滤器
// 额外读取存储中的下架列表；启动时用带存储的构建器重新 Register 即可。
// blacklist 的 key 可以直接给出（key），也可以只给后缀（key_suffix），由 prefix 拼出完整 key。
func NewFilterBuilder(store *filter.StoreAdapter, prefix string, log *logger.Logger) config.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		filtersConfig, ok := cfg["filters"].([]any)
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}
		filters := make([]filter.Filter, 0, len(filtersConfig))
		for _, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]any)
			if !ok {
				continue
			}
			switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
			case "blacklist":
				titles := conv.SliceAnyToString(filterMap["titles"])
				if titles == nil {
					titles = []string{}
				}
				key := conv.ConfigGet(filterMap, "key", "")
				if suffix := conv.ConfigGet(filterMap, "key_suffix", ""); key == "" && suffix != "" {
					key = prefix + suffix
				}
				filters = append(filters, filter.NewBlacklistFilter(titles, store, key))
			case "expr":
				f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
				if err != nil {
					return nil, fmt.Errorf("expr filter: %w", err)
				}
				filters = append(filters, f)
			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}
		return &filter.FilterNode{Filters: filters, Log: log}, nil
	}
}

func BuildEligibilityNode(cfg map[string]any) (pipeline.Node, error) {
	return &filter.EligibilityNode{Rules: filter.EducationEligibility}, nil
}

// pathwayOf 读取 Build 注入的 pathway（即 pipeline 名称）。
func pathwayOf(cfg map[string]any) (core.Pathway, error) {
	name := conv.ConfigGet(cfg, "pathway", "")
	p, ok := core.ParsePathway(name)
	if !ok {
		return "", fmt.Errorf("unknown pathway %q", name)
	}
	return p, nil
}

func BuildFacetNode(cfg map[string]any) (pipeline.Node, error) {
	p, err := pathwayOf(cfg)
	if err != nil {
		return nil, err
	}
	n, err := rerank.NewFacetNode(p)
	if err != nil {
		return nil, err
	}
	if limit := conv.ConfigGetInt(cfg, "limit", 0); limit > 0 {
		n.Limit = limit
	}
	return n, nil
}

func BuildFieldNode(cfg map[string]any) (pipeline.Node, error) {
	n := rerank.NewFieldNode()
	n.Bonus = conv.ConfigGetFloat(cfg, "bonus", n.Bonus)
	n.MaxMatch = conv.ConfigGetFloat(cfg, "max_match", n.MaxMatch)
	return n, nil
}

func BuildDedupNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.DedupNode{Key: conv.ConfigGet(cfg, "key", "")}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", rerank.DefaultLimit)}, nil
}
