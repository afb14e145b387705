package config

import (
	_ "embed"
	"fmt"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pipeline"
)

//go:embed pipelines.yaml
var defaultPipelines []byte

// DefaultPipelines 返回内置的三条 Pipeline 配置。
func DefaultPipelines() (*pipeline.Config, error) {
	return pipeline.ParseConfig(defaultPipelines)
}

// LoadPipelines 从 path 读取 Pipeline 配置；path 为空时使用内置配置。
// 读取后校验所有节点类型均已注册。
func LoadPipelines(path string) (*pipeline.Config, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	if path == "" {
		cfg, err = DefaultPipelines()
	} else {
		cfg, err = pipeline.LoadFromYAML(path)
	}
	if err != nil {
		return nil, err
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildPipelines 用当前注册表构建每个 pathway 的 Pipeline，三个 pathway 都必须有定义。
func BuildPipelines(cfg *pipeline.Config) (map[core.Pathway]*pipeline.Pipeline, error) {
	factory := DefaultFactory()
	out := make(map[core.Pathway]*pipeline.Pipeline, len(core.Pathways()))
	for _, p := range core.Pathways() {
		pl, err := cfg.Build(p.String(), factory)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: %w", p, err)
		}
		out[p] = pl
	}
	return out, nil
}
