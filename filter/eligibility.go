package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
)

// EducationEligibility 是当前学历 -> 允许选择的项目类型。顺序即错误提示中的顺序。
var EducationEligibility = map[string][]string{
	"elementary":  {"als"},
	"junior_high": {"shs", "als"},
	"high_school": {"shs", "college", "als"},
	"senior_high": {"college", "als"},
	"college":     {"college", "graduate"},
	"graduate":    {"graduate"},
}

// leveled 由带学历信息的答案实现（继续教育路径）。
type leveled interface {
	Level() string
}

// EligibilityNode 在打分前校验学历与项目类型是否匹配，不匹配时整个请求被拒绝，
// 返回的校验错误列出该学历允许的项目类型。
// 未填写或未知的学历、未选择项目类型时不做校验。
type EligibilityNode struct {
	Rules map[string][]string
}

func (n *EligibilityNode) Name() string        { return "filter.eligibility" }
func (n *EligibilityNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *EligibilityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Answers == nil {
		return items, nil
	}
	if err := n.Check(rctx.Answers); err != nil {
		return nil, err
	}
	return items, nil
}

// Check 校验答案；不适用时返回 nil。
func (n *EligibilityNode) Check(answers core.Answers) error {
	lv, ok := answers.(leveled)
	if !ok {
		return nil
	}
	rules := n.Rules
	if rules == nil {
		rules = EducationEligibility
	}
	level := strings.TrimSpace(lv.Level())
	allowed, ok := rules[level]
	if !ok {
		return nil
	}
	choice := strings.TrimSpace(answers.Facet())
	if choice == "" {
		return nil
	}
	for _, a := range allowed {
		if a == choice {
			return nil
		}
	}
	return core.NewValidationError(core.ModuleFilter,
		fmt.Sprintf("program type %q is not available for education level %q", choice, level),
		allowed)
}
