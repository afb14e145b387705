package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/utils"
)

// PredictTopK 用模型包对单行特征打分，返回概率最高的 k 个标签。
//
//   - 特征按 FeatureOrder 编码；不在词表中的取值编码为第 0 类（显式的降级路径，不报错）
//   - 概率降序稳定排序，相同概率保持分类器类别下标顺序
//   - match = 概率 × 100，保留一位小数
//   - metadata 取训练目录中标签列等于该标签的第一行，找不到为空记录
func PredictTopK(b *model.Bundle, features map[string]string, k int) ([]*core.Item, error) {
	if b == nil || k <= 0 {
		return []*core.Item{}, nil
	}

	row := make([]int, len(b.FeatureOrder))
	unknown := 0
	for i, f := range b.FeatureOrder {
		enc, ok := b.Encoder(f)
		if !ok {
			continue
		}
		code, known := enc.Encode(features[f])
		if !known {
			unknown++
		}
		row[i] = code
	}

	probs, err := b.Classifier.PredictProba(row)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRank, core.ErrorCodeInternalError,
			fmt.Sprintf("classifier %s failed", b.Classifier.Name()), err)
	}

	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return probs[idx[i]] > probs[idx[j]]
	})
	if k > len(idx) {
		k = len(idx)
	}

	items := make([]*core.Item, 0, k)
	for _, ci := range idx[:k] {
		label, ok := b.LabelEncoder.Decode(ci)
		if !ok {
			continue
		}
		it := core.NewItem(label, roundMatch(probs[ci]))
		it.Meta = b.Catalog.FirstByLabel(label)
		it.PutLabel("rank_model", utils.Label{Value: b.Classifier.Name(), Source: "rank"})
		if unknown > 0 {
			it.PutLabel("unknown_features", utils.IntLabel(unknown, "rank"))
		}
		items = append(items, it)
	}
	return items, nil
}

func roundMatch(p float64) float64 {
	return math.Round(p*1000) / 10
}
