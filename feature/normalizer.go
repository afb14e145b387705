package feature

import (
	"strings"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
)

// Step 记录一个特征是在哪一步被解析出来的。
type Step int

const (
	StepExact      Step = iota + 1 // 同义词表精确命中
	StepSubstring                  // 同义词表子串命中
	StepVocabulary                 // 原值本身就在词表中
	StepDefault                    // 特征默认值
	StepFallback                   // 编码器第一个类别
)

func (s Step) String() string {
	switch s {
	case StepExact:
		return "exact"
	case StepSubstring:
		return "substring"
	case StepVocabulary:
		return "vocabulary"
	case StepDefault:
		return "default"
	case StepFallback:
		return "fallback"
	}
	return "unknown"
}

// Resolution 是单个特征的解析结果。
type Resolution struct {
	Raw   string
	Value string
	Step  Step
}

// Normalizer 把问卷答案映射为模型包词表内的特征向量。
//
// 每个特征独立解析：
//  1. 同义词表精确匹配
//  2. 同义词表子串匹配（表中 key 出现在答案里，或答案出现在 key 里；按表顺序第一个命中者生效）
//  3. 答案本身（大小写不敏感）就是词表中的取值
//  4. 特征默认值
//
// 每一步的结果都要在词表里才算数，否则进入下一步；全部失败时取编码器第一个类别。
// 因此对任意模型包，输出的每个取值都在该特征的词表中。
type Normalizer struct {
	rules map[core.Pathway]Rules
}

// NewNormalizer 创建 Normalizer；rules 为 nil 时使用 DefaultRules。
func NewNormalizer(rules map[core.Pathway]Rules) *Normalizer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// Normalize 按模型包的特征顺序解析全部特征。
func (n *Normalizer) Normalize(b *model.Bundle, answers core.Answers) map[string]Resolution {
	raw := answers.FeatureValues()
	rules := n.rules[answers.Pathway()]
	out := make(map[string]Resolution, len(b.FeatureOrder))
	for _, feature := range b.FeatureOrder {
		rule, _ := rules.Get(feature)
		enc, _ := b.Encoder(feature)
		value, step := rule.Resolve(raw[feature], enc)
		out[feature] = Resolution{Raw: raw[feature], Value: value, Step: step}
	}
	return out
}

// Resolve 解析单个答案。enc 为 nil 时不做词表校验。
func (r Rule) Resolve(raw string, enc *model.LabelEncoder) (string, Step) {
	v := strings.ToLower(strings.TrimSpace(raw))

	if v != "" {
		for _, s := range r.Synonyms {
			if s.From == v {
				if c, ok := canonical(enc, s.To); ok {
					return c, StepExact
				}
				break
			}
		}
		for _, s := range r.Synonyms {
			if strings.Contains(v, s.From) || strings.Contains(s.From, v) {
				if c, ok := canonical(enc, s.To); ok {
					return c, StepSubstring
				}
				break
			}
		}
		if c, ok := canonical(enc, v); ok && enc != nil {
			return c, StepVocabulary
		}
	}

	if r.Default != "" {
		if c, ok := canonical(enc, r.Default); ok {
			return c, StepDefault
		}
	}
	if enc == nil || enc.Len() == 0 {
		return r.Default, StepDefault
	}
	return enc.First(), StepFallback
}

func canonical(enc *model.LabelEncoder, v string) (string, bool) {
	if enc == nil {
		return v, true
	}
	return enc.Lookup(v)
}
