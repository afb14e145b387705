package pipeline

import (
	"context"

	"github.com/rushteam/pathwise/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindNormalize   Kind = "normalize"   // 归一化阶段：问卷答案 -> 特征向量
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选，或拒绝请求
	KindRank        Kind = "rank"        // 排序阶段：分类器打分，生成候选
	KindReRank      Kind = "rerank"      // 重排阶段：facet 加权、去重、截断
	KindPostProcess Kind = "postprocess" // 后处理阶段
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态：normalize 不改 items，rank 生成 items，
// filter/rerank 截断或重排。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
