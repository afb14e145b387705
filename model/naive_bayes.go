package model

import (
	"errors"
	"fmt"
	"math"
)

// NaiveBayes 实现了类别型朴素贝叶斯分类器。
//
// 预测原理：
//  1. 对每个标签类 c：log P(c) + Σ_f log P(x_f | c)
//  2. P(x_f = v | c) = (count(f=v, c) + Alpha) / (count(c) + Alpha * |V_f|)（拉普拉斯平滑）
//  3. log-sum-exp 归一化得到概率分布
//
// 没有随机性：同一模型、同一输入的输出完全确定。
type NaiveBayes struct {
	Alpha         float64       `msgpack:"alpha"`
	ClassCounts   []float64     `msgpack:"class_counts"`   // [class]
	FeatureCounts [][][]float64 `msgpack:"feature_counts"` // [feature][class][value]
	Cardinality   []int         `msgpack:"cardinality"`    // [feature] 词表大小
}

// FitNaiveBayes 用已编码的样本训练模型。
// rows[i][f] 是第 i 个样本第 f 个特征的编码，labels[i] 是其标签类下标。
func FitNaiveBayes(rows [][]int, labels []int, cardinality []int, numClasses int, alpha float64) (*NaiveBayes, error) {
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("naive bayes: %d rows but %d labels", len(rows), len(labels))
	}
	if len(rows) == 0 {
		return nil, errors.New("naive bayes: no samples")
	}
	if numClasses <= 0 {
		return nil, errors.New("naive bayes: no classes")
	}
	if alpha <= 0 {
		alpha = 1
	}

	nb := &NaiveBayes{
		Alpha:         alpha,
		ClassCounts:   make([]float64, numClasses),
		FeatureCounts: make([][][]float64, len(cardinality)),
		Cardinality:   append([]int(nil), cardinality...),
	}
	for f, card := range cardinality {
		nb.FeatureCounts[f] = make([][]float64, numClasses)
		for c := 0; c < numClasses; c++ {
			nb.FeatureCounts[f][c] = make([]float64, card)
		}
	}

	for i, row := range rows {
		c := labels[i]
		if c < 0 || c >= numClasses {
			return nil, fmt.Errorf("naive bayes: label %d out of range at row %d", c, i)
		}
		if len(row) != len(cardinality) {
			return nil, fmt.Errorf("naive bayes: row %d has %d features, want %d", i, len(row), len(cardinality))
		}
		nb.ClassCounts[c]++
		for f, v := range row {
			if v < 0 || v >= cardinality[f] {
				return nil, fmt.Errorf("naive bayes: feature %d value %d out of range at row %d", f, v, i)
			}
			nb.FeatureCounts[f][c][v]++
		}
	}
	return nb, nil
}

func (m *NaiveBayes) Name() string { return "naive_bayes" }

func (m *NaiveBayes) NumClasses() int { return len(m.ClassCounts) }

// Validate 检查反序列化后的模型形状是否一致。
func (m *NaiveBayes) Validate() error {
	n := len(m.ClassCounts)
	if n == 0 {
		return errors.New("naive bayes: no classes")
	}
	if len(m.FeatureCounts) != len(m.Cardinality) {
		return errors.New("naive bayes: feature count mismatch")
	}
	for f, perClass := range m.FeatureCounts {
		if len(perClass) != n {
			return fmt.Errorf("naive bayes: feature %d has %d classes, want %d", f, len(perClass), n)
		}
		for _, counts := range perClass {
			if len(counts) != m.Cardinality[f] {
				return fmt.Errorf("naive bayes: feature %d cardinality mismatch", f)
			}
		}
	}
	return nil
}

// PredictProba 返回各标签类的概率。
// 编码越界的特征不参与计算（视为缺失），从不因输入取值报错。
func (m *NaiveBayes) PredictProba(row []int) ([]float64, error) {
	if len(row) != len(m.Cardinality) {
		return nil, fmt.Errorf("naive bayes: got %d features, want %d", len(row), len(m.Cardinality))
	}

	var total float64
	for _, c := range m.ClassCounts {
		total += c
	}
	numClasses := len(m.ClassCounts)

	logp := make([]float64, numClasses)
	for c := 0; c < numClasses; c++ {
		lp := math.Log((m.ClassCounts[c] + m.Alpha) / (total + m.Alpha*float64(numClasses)))
		for f, v := range row {
			if v < 0 || v >= m.Cardinality[f] {
				continue
			}
			num := m.FeatureCounts[f][c][v] + m.Alpha
			den := m.ClassCounts[c] + m.Alpha*float64(m.Cardinality[f])
			lp += math.Log(num / den)
		}
		logp[c] = lp
	}

	maxLP := math.Inf(-1)
	for _, lp := range logp {
		if lp > maxLP {
			maxLP = lp
		}
	}
	var sum float64
	probs := make([]float64, numClasses)
	for c, lp := range logp {
		probs[c] = math.Exp(lp - maxLP)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs, nil
}

var _ Classifier = (*NaiveBayes)(nil)
