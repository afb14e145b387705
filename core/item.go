package core

import "github.com/rushteam/pathwise/pkg/utils"

// Item 是推荐链路中的统一承载结构。
// 对外只暴露 title / match / metadata；FacetScore 与 Labels 用于排序决策与 explain。
type Item struct {
	Title string            `json:"title"`
	Match float64           `json:"match"`    // 0-100，保留一位小数
	Meta  map[string]string `json:"metadata"` // 训练目录中的完整记录

	FacetScore int                    `json:"-"`
	Labels     map[string]utils.Label `json:"-"`
}

func NewItem(title string, match float64) *Item {
	return &Item{
		Title:  title,
		Match:  match,
		Meta:   make(map[string]string),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Clone 返回深拷贝，用于保留未加权的原始结果。
func (it *Item) Clone() *Item {
	c := &Item{
		Title:      it.Title,
		Match:      it.Match,
		FacetScore: it.FacetScore,
		Meta:       make(map[string]string, len(it.Meta)),
		Labels:     make(map[string]utils.Label, len(it.Labels)),
	}
	for k, v := range it.Meta {
		c.Meta[k] = v
	}
	for k, v := range it.Labels {
		c.Labels[k] = v
	}
	return c
}
