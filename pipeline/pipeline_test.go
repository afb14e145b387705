package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/core"
)

type appendNode struct {
	title string
	err   error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindRank }
func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.title, 50)), nil
}

func testContext(t *testing.T) *core.RecommendContext {
	answers, err := core.NewAnswers(core.PathwayCareer, map[string]string{"industry": "tech"})
	require.NoError(t, err)
	return core.NewRecommendContext(1, answers)
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{title: "a"}, &appendNode{title: "b"}}}
	items, err := p.Run(context.Background(), testContext(t), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Title)
	assert.Equal(t, "b", items[1].Title)
}

func TestPipeline_RunErrors(t *testing.T) {
	plain := &Pipeline{Nodes: []Node{&appendNode{err: errors.New("boom")}}}
	_, err := plain.Run(context.Background(), testContext(t), nil)
	assert.EqualError(t, err, "node test.append: boom")

	domain := &Pipeline{Nodes: []Node{&appendNode{err: core.ErrNoProgramsMatched}}}
	_, err = domain.Run(context.Background(), testContext(t), nil)
	assert.Same(t, core.ErrNoProgramsMatched, err)
}

func TestConfig_Build(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
pipelines:
  career:
    nodes:
      - type: test.append
        config:
          title: x
      - type: test.append
`))
	require.NoError(t, err)

	var seen []map[string]any
	f := NewNodeFactory()
	f.Register("test.append", func(c map[string]any) (Node, error) {
		seen = append(seen, c)
		title, _ := c["title"].(string)
		return &appendNode{title: title}, nil
	})

	p, err := cfg.Build("career", f)
	require.NoError(t, err)
	assert.Equal(t, "career", p.Name)
	assert.Len(t, p.Nodes, 2)
	require.Len(t, seen, 2)
	assert.Equal(t, "career", seen[0]["pathway"])
	assert.Equal(t, "x", seen[0]["title"])
	assert.Equal(t, "career", seen[1]["pathway"])

	_, err = cfg.Build("tesda", f)
	assert.Error(t, err)

	_, err = NewNodeFactory().Build("nope", nil)
	assert.EqualError(t, err, "unknown node type: nope")
}

func TestParseConfig_Empty(t *testing.T) {
	_, err := ParseConfig([]byte("pipelines: {}\n"))
	assert.Error(t, err)
}
