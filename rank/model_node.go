package rank

import (
	"context"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pipeline"
)

// DefaultK 是 career / education 的候选数；tesda 的 facet 过滤更严格，配置为 20。
const DefaultK = 5

// ModelNode 是排序节点：用请求的模型包快照对 rctx.Features 打分，生成 top-K 候选。
// 输入 items 被忽略。
type ModelNode struct {
	K int
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	b, ok := model.BundleFromContext(ctx)
	if !ok {
		return nil, core.ErrBundleUnavailable
	}
	k := n.K
	if k <= 0 {
		k = DefaultK
	}
	return PredictTopK(b, rctx.Features, k)
}
