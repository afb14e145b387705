package feature

import (
	"context"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/utils"
)

// NormalizeNode 是归一化节点：把 rctx.Answers 解析为 rctx.Features，不改动 items。
// 使用请求 context 中的模型包快照校验词表；走了默认值的特征会记为请求级 Label "defaulted"。
type NormalizeNode struct {
	Normalizer *Normalizer
}

func (n *NormalizeNode) Name() string        { return "feature.normalize" }
func (n *NormalizeNode) Kind() pipeline.Kind { return pipeline.KindNormalize }

func (n *NormalizeNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	b, ok := model.BundleFromContext(ctx)
	if !ok {
		return nil, core.ErrBundleUnavailable
	}
	norm := n.Normalizer
	if norm == nil {
		norm = NewNormalizer(nil)
	}

	if rctx.Features == nil {
		rctx.Features = make(map[string]string, len(b.FeatureOrder))
	}
	resolved := norm.Normalize(b, rctx.Answers)
	for _, feature := range b.FeatureOrder {
		res := resolved[feature]
		rctx.Features[feature] = res.Value
		if res.Step >= StepDefault {
			rctx.PutLabel("defaulted", utils.Label{Value: feature, Source: "normalize"})
		}
	}
	return items, nil
}
