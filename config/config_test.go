package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/config"
	"github.com/rushteam/pathwise/config/builders"
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/filter"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/rank"
	"github.com/rushteam/pathwise/rerank"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadApp(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9090"
auth:
  jwt_secret: from-file
  token_ttl: 2h
bundles:
  source: kv
`)
	t.Setenv("PATHWISE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PATHWISE_AUTH_JWT_SECRET", "from-env")

	cfg, err := config.LoadApp(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "kv", cfg.Bundles.Source)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "pathwise:", cfg.Redis.Prefix)
	assert.Len(t, cfg.Datasets.Paths(), 3)
}

func TestLoadApp_Invalid(t *testing.T) {
	_, err := config.LoadApp(writeFile(t, "config.yaml", "server:\n  addr: \":1\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")

	_, err = config.LoadApp(writeFile(t, "config.yaml", "auth:\n  jwt_secret: x\nbundles:\n  source: s3\n"))
	require.Error(t, err)

	_, err = config.LoadApp(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultPipelines(t *testing.T) {
	cfg, err := config.LoadPipelines("")
	require.NoError(t, err)

	pipelines, err := config.BuildPipelines(cfg)
	require.NoError(t, err)
	require.Len(t, pipelines, 3)

	tesda := pipelines[core.PathwayTESDA]
	var k int
	for _, n := range tesda.Nodes {
		if m, ok := n.(*rank.ModelNode); ok {
			k = m.K
		}
	}
	assert.Equal(t, 20, k)

	edu := pipelines[core.PathwayEducation]
	names := make([]string, 0, len(edu.Nodes))
	for _, n := range edu.Nodes {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{
		"feature.normalize", "filter.eligibility", "rank.model", "rerank.facet", "rerank.field", "rerank.topn",
	}, names)

	facet, ok := edu.Nodes[3].(*rerank.FacetNode)
	require.True(t, ok)
	assert.True(t, facet.EmptyAsError)
	assert.Equal(t, rerank.EducationBoost, facet.Boost)
}

func TestValidatePipelineConfig(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(`
pipelines:
  career:
    nodes:
      - type: recall.hot
`))
	require.NoError(t, err)
	err = config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall.hot")
	assert.Contains(t, err.Error(), "rank.model")
}

func TestBuildPipelines_MissingPathway(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(`
pipelines:
  career:
    nodes:
      - type: rank.model
`))
	require.NoError(t, err)
	_, err = config.BuildPipelines(cfg)
	assert.Error(t, err)
}

func TestBuilders_Filter(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(`
pipelines:
  career:
    nodes:
      - type: filter
        config:
          filters:
            - type: blacklist
              titles: [Chef]
            - type: expr
              expr: "item.match < 1.0"
`))
	require.NoError(t, err)
	_, err = cfg.Build("career", config.DefaultFactory())
	require.NoError(t, err)

	bad, err := pipeline.ParseConfig([]byte(`
pipelines:
  career:
    nodes:
      - type: filter
        config:
          filters:
            - type: expr
              expr: "item.match <"
`))
	require.NoError(t, err)
	_, err = bad.Build("career", config.DefaultFactory())
	assert.Error(t, err)
}

func TestBuilders_FilterKeyPrefix(t *testing.T) {
	build := builders.NewFilterBuilder(nil, "acme:", nil)
	node, err := build(map[string]any{"filters": []any{
		map[string]any{"type": "blacklist", "key_suffix": "blacklist:tesda"},
		map[string]any{"type": "blacklist", "key": "fixed:key", "key_suffix": "ignored"},
	}})
	require.NoError(t, err)
	fn, ok := node.(*filter.FilterNode)
	require.True(t, ok)
	require.Len(t, fn.Filters, 2)
	assert.Equal(t, "acme:blacklist:tesda", fn.Filters[0].(*filter.BlacklistFilter).Key)
	assert.Equal(t, "fixed:key", fn.Filters[1].(*filter.BlacklistFilter).Key)

	// 内置 pipeline 只写后缀，完整 key 由部署的 prefix 决定
	cfg, err := config.DefaultPipelines()
	require.NoError(t, err)
	for _, name := range []string{"career", "tesda"} {
		var suffix any
		for _, nc := range cfg.Pipelines[name].Nodes {
			if nc.Type == "filter" {
				suffix = nc.Config["filters"].([]any)[0].(map[string]any)["key_suffix"]
			}
		}
		assert.Equal(t, "blacklist:"+name, suffix, name)
	}
}
