package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rushteam/pathwise/config"
	"github.com/rushteam/pathwise/config/builders"
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/filter"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/server"
	"github.com/rushteam/pathwise/service"
	"github.com/rushteam/pathwise/store"
)

// app 是装配好的进程依赖。
type app struct {
	handler  *server.Handler
	admin    *service.Admin
	registry *model.Registry
	closers  []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func newKVStore(cfg config.RedisConfig) (core.KeyValueStore, error) {
	if cfg.Addr == "" {
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewRedisStore(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return s, nil
}

func newBundleStore(cfg config.BundleConfig, kv core.Store, prefix string) model.BundleStore {
	if cfg.Source == "kv" {
		return store.NewKVBundleStore(kv, prefix)
	}
	return store.NewFileBundleStore(cfg.Dir)
}

func buildApp(ctx context.Context, cfg *config.App, log *logger.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	kv, err := newKVStore(cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, kv.Close)
	log.Info("kv store ready", "backend", kv.Name())

	db, err := store.OpenSQLite(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	sql := store.NewSQLStore(db, log)
	a.closers = append(a.closers, sql.Close)
	if err := sql.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	bundles := newBundleStore(cfg.Bundles, kv, cfg.Redis.Prefix)
	a.registry = model.NewRegistry(bundles, log)
	loaded := a.registry.LoadAll(ctx)
	log.Info("bundles loaded", "loaded", loaded, "ready", a.registry.Ready())

	// 下架列表存放在 KV 存储中，由 filter 节点读取
	config.Register("filter", builders.NewFilterBuilder(filter.NewStoreAdapter(kv), cfg.Redis.Prefix, log))
	pcfg, err := config.LoadPipelines(cfg.Pipelines.File)
	if err != nil {
		return nil, err
	}
	pipelines, err := config.BuildPipelines(pcfg)
	if err != nil {
		return nil, err
	}

	trainer := &service.Trainer{Datasets: cfg.Datasets.Paths(), Store: bundles, Log: log}
	a.admin = &service.Admin{
		Users:    sql,
		Store:    sql,
		Popular:  kv,
		Prefix:   cfg.Redis.Prefix,
		Trainer:  trainer,
		Registry: a.registry,
		Username: cfg.Auth.AdminUsername,
		Password: cfg.Auth.AdminPassword,
		Log:      log,
	}
	a.handler = &server.Handler{
		Recommender: &service.Recommender{
			Registry:  a.registry,
			Pipelines: pipelines,
			Responses: sql,
			Saved:     sql,
			Popular:   kv,
			Prefix:    cfg.Redis.Prefix,
			Log:       log,
		},
		Accounts: &service.Accounts{Users: sql, Log: log},
		Profiles: &service.Profiles{Store: sql},
		Admin:    a.admin,
		Registry: a.registry,
		Tokens:   server.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Log:      log,
	}
	return a, nil
}

// missingPathways 返回尚未加载模型包的 pathway。
func (a *app) missingPathways() []core.Pathway {
	var out []core.Pathway
	for _, p := range core.Pathways() {
		if _, ok := a.registry.Get(p); !ok {
			out = append(out, p)
		}
	}
	return out
}

// trainInBackground 依次训练缺失的 pathway，返回的函数取消训练并等待其退出。
func trainInBackground(
	ctx context.Context,
	pathways []core.Pathway,
	retrain func(ctx context.Context, pathway string) error,
	log *logger.Logger,
) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, p := range pathways {
			if ctx.Err() != nil {
				return
			}
			if err := retrain(ctx, p.String()); err != nil {
				log.Warn("background training failed", "pathway", p, "error", err)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
