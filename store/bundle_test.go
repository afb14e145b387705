package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
)

const tesdaCSV = `course_name,course_interest,budget,time_available,location,experience
Welding NC II,construction,free,full_time,manila,beginner
Cookery NC II,food,free,full_time,makati,beginner
Web Development NC II,ict,paid,full_time,makati,intermediate
`

func tesdaBundle(t *testing.T) *model.Bundle {
	t.Helper()
	c, err := model.ReadCSV(strings.NewReader(tesdaCSV), "course_name")
	require.NoError(t, err)
	b, err := model.Train(c, model.DefaultTrainSpecs["tesda"])
	require.NoError(t, err)
	return b
}

func TestFileBundleStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileBundleStore(dir)

	_, err := s.Load(ctx, "tesda")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))

	b := tesdaBundle(t)
	require.NoError(t, s.Save(ctx, b))
	_, err = os.Stat(filepath.Join(dir, "model_tesda.msgpack"))
	require.NoError(t, err)

	got, err := s.Load(ctx, "tesda")
	require.NoError(t, err)
	assert.Equal(t, b.LabelEncoder.Classes(), got.LabelEncoder.Classes())
	assert.Equal(t, b.FeatureOrder, got.FeatureOrder)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "model_career.msgpack"), []byte("garbage"), 0o644))
	_, err = s.Load(ctx, "career")
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}

func TestKVBundleStore(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	defer kv.Close()
	s := NewKVBundleStore(kv, "pathwise:")

	_, err := s.Load(ctx, "tesda")
	assert.True(t, core.IsNotFound(err))

	b := tesdaBundle(t)
	require.NoError(t, s.Save(ctx, b))
	_, err = kv.Get(ctx, "pathwise:bundle:tesda")
	require.NoError(t, err)

	got, err := s.Load(ctx, "tesda")
	require.NoError(t, err)
	assert.Equal(t, "tesda", got.Pathway)

	require.NoError(t, kv.Set(ctx, "pathwise:bundle:career", []byte{0xc1}))
	_, err = s.Load(ctx, "career")
	assert.True(t, core.IsUnavailable(err))
}

func TestRegistryWithFileStore(t *testing.T) {
	ctx := context.Background()
	s := NewFileBundleStore(t.TempDir())
	require.NoError(t, s.Save(ctx, tesdaBundle(t)))

	reg := model.NewRegistry(s, nil)
	assert.Equal(t, 1, reg.LoadAll(ctx))
	assert.Equal(t, []core.Pathway{core.PathwayTESDA}, reg.Ready())
}
