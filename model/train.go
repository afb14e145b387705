package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MissingValue 是训练时空值与缺失列的填充值。
const MissingValue = "NA"

// TrainSpec 描述一个 pathway 的训练输入：特征列（即推理时的特征顺序）与标签列。
type TrainSpec struct {
	Pathway        string
	FeatureColumns []string
	LabelColumn    string
	Alpha          float64 // 拉普拉斯平滑系数，<=0 时取 1
}

// DefaultTrainSpecs 是三个 pathway 的默认训练配置。
var DefaultTrainSpecs = map[string]TrainSpec{
	"career": {
		Pathway:        "career",
		FeatureColumns: []string{"primary_skills", "industry", "salary", "work_environment"},
		LabelColumn:    "job_title",
	},
	"education": {
		Pathway:        "education",
		FeatureColumns: []string{"modality", "budget", "learning_style", "motivation", "field"},
		LabelColumn:    "program_name",
	},
	"tesda": {
		Pathway:        "tesda",
		FeatureColumns: []string{"budget", "time_available", "location", "experience"},
		LabelColumn:    "course_name",
	},
}

// Train 在训练目录上拟合编码器与分类器，产出一个新的模型包。
// 目录中不存在的特征列整列按 MissingValue 处理。
func Train(catalog *Catalog, spec TrainSpec) (*Bundle, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, errors.New("train: empty catalog")
	}
	if len(spec.FeatureColumns) == 0 {
		return nil, errors.New("train: no feature columns")
	}
	if spec.LabelColumn != "" && catalog.LabelColumn() != spec.LabelColumn {
		idx := catalog.ColumnIndex(spec.LabelColumn)
		if idx < 0 {
			return nil, fmt.Errorf("train: label column %q not found", spec.LabelColumn)
		}
		catalog = catalog.moveLast(idx)
	}

	n := catalog.Len()
	columns := make([][]string, len(spec.FeatureColumns))
	encoders := make(map[string]*LabelEncoder, len(spec.FeatureColumns))
	cardinality := make([]int, len(spec.FeatureColumns))
	for f, name := range spec.FeatureColumns {
		col := catalog.Column(name)
		if col == nil {
			col = make([]string, n)
		}
		for i := range col {
			col[i] = fillMissing(col[i])
		}
		columns[f] = col
		encoders[name] = NewLabelEncoder(col)
		cardinality[f] = encoders[name].Len()
	}

	labelCol := catalog.Column(catalog.LabelColumn())
	for i := range labelCol {
		labelCol[i] = fillMissing(labelCol[i])
	}
	labelEnc := NewLabelEncoder(labelCol)

	rows := make([][]int, n)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		row := make([]int, len(spec.FeatureColumns))
		for f, name := range spec.FeatureColumns {
			row[f], _ = encoders[name].Encode(columns[f][i])
		}
		rows[i] = row
		labels[i], _ = labelEnc.Encode(labelCol[i])
	}

	nb, err := FitNaiveBayes(rows, labels, cardinality, labelEnc.Len(), spec.Alpha)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	b := &Bundle{
		Pathway:         spec.Pathway,
		Classifier:      nb,
		FeatureEncoders: encoders,
		LabelEncoder:    labelEnc,
		FeatureOrder:    append([]string(nil), spec.FeatureColumns...),
		Catalog:         catalog,
		TrainedAt:       time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	return b, nil
}

func fillMissing(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return MissingValue
	}
	return v
}
