package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
)

// Trainer 从 CSV 训练模型包并写入 BundleStore。
type Trainer struct {
	// Datasets 是 pathway 名称 -> CSV 路径
	Datasets map[string]string
	// Specs 为 nil 时使用 model.DefaultTrainSpecs
	Specs map[string]model.TrainSpec
	// Store 为 nil 时只训练不保存
	Store model.BundleStore
	Log   *logger.Logger
}

// Retrain 重新训练 pathway 的模型包并保存，返回新模型包。不会替换 Registry 中的模型包。
func (t *Trainer) Retrain(ctx context.Context, pathway string) (*model.Bundle, error) {
	specs := t.Specs
	if specs == nil {
		specs = model.DefaultTrainSpecs
	}
	spec, ok := specs[pathway]
	if !ok {
		return nil, core.ErrUnknownPathway
	}
	path, ok := t.Datasets[pathway]
	if !ok || path == "" {
		return nil, core.NewDomainError(core.ModuleTraining, core.ErrorCodeNotFound,
			fmt.Sprintf("no dataset configured for %s", pathway))
	}

	start := time.Now()
	b, err := TrainFile(path, spec)
	if err != nil {
		return nil, err
	}
	if t.Store != nil {
		if err := t.Store.Save(ctx, b); err != nil {
			return nil, core.WrapDomainError(core.ModuleTraining, core.ErrorCodeStorage,
				fmt.Sprintf("save bundle %s", pathway), err)
		}
	}
	if t.Log != nil {
		t.Log.Info("bundle trained",
			"pathway", pathway,
			"rows", b.Catalog.Len(),
			"classes", b.LabelEncoder.Len(),
			"elapsed", time.Since(start).String(),
		)
	}
	return b, nil
}

// TrainFile 读取 CSV 并训练。
func TrainFile(path string, spec model.TrainSpec) (*model.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleTraining, core.ErrorCodeNotFound,
			fmt.Sprintf("open dataset %s", path), err)
	}
	defer f.Close()

	catalog, err := model.ReadCSV(f, spec.LabelColumn)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleTraining, core.ErrorCodeInvalidInput,
			fmt.Sprintf("read dataset %s", path), err)
	}
	b, err := model.Train(catalog, spec)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleTraining, core.ErrorCodeInvalidInput,
			fmt.Sprintf("train %s", spec.Pathway), err)
	}
	return b, nil
}
