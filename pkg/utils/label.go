package utils

import "strconv"

// Label 记录一条推荐结果在链路中的来历：哪个节点、基于什么规则改动了它。
// 例如 rank_model=naive_bayes、facet=tech、boosted=62.3->88.3。
// Label 不进入对外输出，只用于 explain 与日志。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // normalize / rank / filter / rerank ...
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "", incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// IntLabel 以整数值构造 Label。
func IntLabel(v int, source string) Label {
	return Label{Value: strconv.Itoa(v), Source: source}
}

// FloatLabel 以一位小数构造 Label（与 match 分数的精度一致）。
func FloatLabel(v float64, source string) Label {
	return Label{Value: strconv.FormatFloat(v, 'f', 1, 64), Source: source}
}
