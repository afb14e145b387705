// Package pathwise 是一个按 pathway（就业 / 继续教育 / TESDA 职业培训）给出推荐的服务。
//
// 设计要点：
// - Pipeline-first: 一次推荐由 Node 串联（Normalize → Filter → Rank → ReRank）
// - Bundle snapshot: 每个请求只使用一个模型包快照，重新训练原子替换，不影响进行中的请求
// - Labels-first: 默认值、facet 得分、加权过程都以 Label 记录在结果上，便于 explain
package pathwise

import "github.com/rushteam/pathwise/pipeline"

// 轻量 facade：便于直接 import "pathwise" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindNormalize   = pipeline.KindNormalize
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
