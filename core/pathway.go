package core

import "strings"

// Pathway 是三条互相独立的推荐路径之一，各自拥有模型包、特征与 facet 规则。
type Pathway string

const (
	PathwayCareer    Pathway = "career"    // 就业方向
	PathwayEducation Pathway = "education" // 继续教育（SHS / 大学 / ALS / 研究生）
	PathwayTESDA     Pathway = "tesda"     // TESDA 职业技能培训
)

// Pathways 以固定顺序返回全部 pathway。
func Pathways() []Pathway {
	return []Pathway{PathwayCareer, PathwayEducation, PathwayTESDA}
}

// ParsePathway 大小写不敏感地解析 pathway 名称。
func ParsePathway(s string) (Pathway, bool) {
	p := Pathway(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PathwayCareer, PathwayEducation, PathwayTESDA:
		return p, true
	}
	return "", false
}

func (p Pathway) String() string { return string(p) }
