package model

import (
	"sort"
	"strings"
)

// LabelEncoder 是类别编码器：训练时见过的取值排序去重后，按下标映射为整数。
// 构造后只读，可被多个请求并发使用。
type LabelEncoder struct {
	classes []string
	index   map[string]int
	folded  map[string]int // 小写 -> 下标，用于大小写不敏感的规范值查找
}

// NewLabelEncoder 以任意顺序、可重复的取值构造编码器（内部排序去重）。
func NewLabelEncoder(values []string) *LabelEncoder {
	uniq := make(map[string]struct{}, len(values))
	for _, v := range values {
		uniq[v] = struct{}{}
	}
	classes := make([]string, 0, len(uniq))
	for v := range uniq {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return newLabelEncoderSorted(classes)
}

func newLabelEncoderSorted(classes []string) *LabelEncoder {
	e := &LabelEncoder{
		classes: classes,
		index:   make(map[string]int, len(classes)),
		folded:  make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		e.index[c] = i
		k := strings.ToLower(c)
		if _, ok := e.folded[k]; !ok {
			e.folded[k] = i
		}
	}
	return e
}

// Encode 返回 v 的类别下标。
// 未见过的取值返回 (0, false)：按约定退化为第 0 类而不是报错，调用方可据此打标。
func (e *LabelEncoder) Encode(v string) (int, bool) {
	if i, ok := e.index[v]; ok {
		return i, true
	}
	return 0, false
}

// Decode 返回下标对应的类别。
func (e *LabelEncoder) Decode(i int) (string, bool) {
	if i < 0 || i >= len(e.classes) {
		return "", false
	}
	return e.classes[i], true
}

// Contains 判断 v 是否在词表中（大小写敏感）。
func (e *LabelEncoder) Contains(v string) bool {
	_, ok := e.index[v]
	return ok
}

// Lookup 大小写不敏感地查找规范取值，返回词表中的原始写法。
func (e *LabelEncoder) Lookup(v string) (string, bool) {
	if i, ok := e.index[v]; ok {
		return e.classes[i], true
	}
	if i, ok := e.folded[strings.ToLower(v)]; ok {
		return e.classes[i], true
	}
	return "", false
}

// First 返回第 0 类；空编码器返回 ""。
func (e *LabelEncoder) First() string {
	if len(e.classes) == 0 {
		return ""
	}
	return e.classes[0]
}

func (e *LabelEncoder) Len() int { return len(e.classes) }

// Classes 返回词表副本。
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
