package core

import "github.com/rushteam/pathwise/pkg/utils"

// RecommendContext 承载单次提交的用户、路径与答案，贯穿整个 Pipeline 透传。
// 模型包快照不放在这里，而是随 context.Context 传递（见 model.WithBundle），
// 以保证同一请求内归一化与排序看到的是同一个模型包。
type RecommendContext struct {
	UserID  uint
	Pathway Pathway

	// Answers 是强类型问卷答案
	Answers Answers

	// Features 是归一化后的特征向量：特征名 -> 词表中的规范取值，由 feature.normalize 写入
	Features map[string]string

	// Labels 是请求级标签，例如某个特征走了默认值
	Labels map[string]utils.Label

	// Params 请求级扩展参数
	Params map[string]any
}

// NewRecommendContext 以答案构造上下文。
func NewRecommendContext(userID uint, answers Answers) *RecommendContext {
	return &RecommendContext{
		UserID:   userID,
		Pathway:  answers.Pathway(),
		Answers:  answers,
		Features: make(map[string]string),
		Labels:   make(map[string]utils.Label),
		Params:   make(map[string]any),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
