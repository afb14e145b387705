package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是全部 Pipeline 的配置结构：pathway 名 -> 节点列表。
//
//	pipelines:
//	  career:
//	    nodes:
//	      - type: feature.normalize
//	      - type: rank.model
//	        config: {k: 5}
type Config struct {
	Pipelines map[string]Spec `yaml:"pipelines"`
}

// Spec 是单条 Pipeline 的配置。
type Spec struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type"`   // feature.normalize / rank.model / rerank.facet 等
	Config map[string]any `yaml:"config"` // Node 特定配置
}

// ParseConfig 解析 YAML 配置。
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(cfg.Pipelines) == 0 {
		return nil, fmt.Errorf("parse yaml: no pipelines defined")
	}
	return &cfg, nil
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseConfig(data)
}

// Build 构建名为 name 的 Pipeline。
// 注意：builder 的注册放在独立的 config 包中，避免循环依赖。
func (c *Config) Build(name string, factory *NodeFactory) (*Pipeline, error) {
	spec, ok := c.Pipelines[name]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not defined", name)
	}
	nodes := make([]Node, 0, len(spec.Nodes))
	for _, nc := range spec.Nodes {
		cfg := nc.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		// 节点可以读取所在 pipeline 的名字（即 pathway）
		if _, ok := cfg["pathway"]; !ok {
			cfg["pathway"] = name
		}
		node, err := factory.Build(nc.Type, cfg)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return &Pipeline{Name: name, Nodes: nodes}, nil
}

// BuildAll 构建全部 Pipeline。
func (c *Config) BuildAll(factory *NodeFactory) (map[string]*Pipeline, error) {
	out := make(map[string]*Pipeline, len(c.Pipelines))
	for name := range c.Pipelines {
		p, err := c.Build(name, factory)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(map[string]any) (Node, error)

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}
