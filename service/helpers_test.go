package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/config"
	"github.com/rushteam/pathwise/config/builders"
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/filter"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/store"
)

var testDatasets = map[string]string{
	"career":    "testdata/career.csv",
	"education": "testdata/education.csv",
	"tesda":     "testdata/tesda.csv",
}

const testPrefix = "test:"

type fixture struct {
	registry    *model.Registry
	trainer     *Trainer
	sql         *store.SQLStore
	kv          *store.MemoryStore
	recommender *Recommender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	bundles := store.NewFileBundleStore(t.TempDir())
	trainer := &Trainer{Datasets: testDatasets, Store: bundles, Log: logger.NewTest(t)}
	reg := model.NewRegistry(bundles, logger.NewTest(t))
	for _, p := range core.Pathways() {
		b, err := trainer.Retrain(ctx, p.String())
		require.NoError(t, err)
		require.NoError(t, reg.Swap(p, b))
	}

	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	sql := store.NewSQLStore(db, nil)
	require.NoError(t, sql.Migrate(ctx))
	t.Cleanup(func() { _ = sql.Close() })

	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	config.Register("filter", builders.NewFilterBuilder(filter.NewStoreAdapter(kv), testPrefix, logger.NewTest(t)))
	cfg, err := config.LoadPipelines("")
	require.NoError(t, err)
	pipelines, err := config.BuildPipelines(cfg)
	require.NoError(t, err)

	return &fixture{
		registry: reg,
		trainer:  trainer,
		sql:      sql,
		kv:       kv,
		recommender: &Recommender{
			Registry:  reg,
			Pipelines: pipelines,
			Responses: sql,
			Saved:     sql,
			Popular:   kv,
			Prefix:    testPrefix,
			Log:       logger.NewTest(t),
		},
	}
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
