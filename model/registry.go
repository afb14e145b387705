package model

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/pkg/metrics"
)

// BundleStore 是模型包的持久化接口（进程启动与重新训练后加载）。
//
// 实现：
//   - store.FileBundleStore：本地目录
//   - store.KVBundleStore：任意 core.Store（内存 / Redis）
type BundleStore interface {
	// Load 读取 pathway 的模型包；不存在返回 NOT_FOUND，损坏返回 UNAVAILABLE。
	Load(ctx context.Context, pathway string) (*Bundle, error)
	Save(ctx context.Context, b *Bundle) error
}

// Registry 持有每个 pathway 当前生效的模型包。
//
// 读路径无锁：Get 返回的是某一时刻完整的模型包指针；Swap 原子替换，
// 正在使用旧模型包的请求不受影响，直到它们结束。
type Registry struct {
	store   BundleStore
	log     *logger.Logger
	bundles map[core.Pathway]*atomic.Pointer[Bundle]
}

// NewRegistry 为三个 pathway 各准备一个空槽位。
func NewRegistry(store BundleStore, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Registry{
		store:   store,
		log:     log.With("component", "bundle_registry"),
		bundles: make(map[core.Pathway]*atomic.Pointer[Bundle], 3),
	}
	for _, p := range core.Pathways() {
		r.bundles[p] = new(atomic.Pointer[Bundle])
	}
	return r
}

// LoadAll 并发加载全部 pathway。单个 pathway 失败只记录日志，不影响其余两个；
// 返回成功加载的 pathway 数量。
func (r *Registry) LoadAll(ctx context.Context) int {
	var loaded atomic.Int32
	eg, ctx := errgroup.WithContext(ctx)
	for _, p := range core.Pathways() {
		eg.Go(func() error {
			if err := r.Load(ctx, p); err != nil {
				r.log.Warn("bundle not loaded", "pathway", p, "error", err)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	_ = eg.Wait()
	return int(loaded.Load())
}

// Load 从 BundleStore 读取并安装一个 pathway 的模型包。
func (r *Registry) Load(ctx context.Context, p core.Pathway) error {
	if r.store == nil {
		return core.NewDomainError(core.ModuleBundle, core.ErrorCodeUnavailable, "bundle: no store configured")
	}
	b, err := r.store.Load(ctx, string(p))
	if err != nil {
		metrics.BundleLoads.WithLabelValues(string(p), "error").Inc()
		return err
	}
	if err := r.Swap(p, b); err != nil {
		metrics.BundleLoads.WithLabelValues(string(p), "error").Inc()
		return err
	}
	metrics.BundleLoads.WithLabelValues(string(p), "ok").Inc()
	return nil
}

// Swap 校验并原子安装新的模型包。
func (r *Registry) Swap(p core.Pathway, b *Bundle) error {
	slot, ok := r.bundles[p]
	if !ok {
		return core.ErrUnknownPathway
	}
	if err := b.Validate(); err != nil {
		return core.WrapDomainError(core.ModuleBundle, core.ErrorCodeUnavailable,
			fmt.Sprintf("bundle %s is corrupt", p), err)
	}
	if b.Pathway != "" && b.Pathway != string(p) {
		return core.NewDomainError(core.ModuleBundle, core.ErrorCodeInvalidInput,
			fmt.Sprintf("bundle for %q cannot be installed as %q", b.Pathway, p))
	}
	old := slot.Swap(b)
	r.log.Info("bundle installed",
		"pathway", p,
		"classes", b.LabelEncoder.Len(),
		"trained_at", b.TrainedAt,
		"replaced", old != nil,
	)
	return nil
}

// Get 返回 pathway 当前的模型包快照。
func (r *Registry) Get(p core.Pathway) (*Bundle, bool) {
	slot, ok := r.bundles[p]
	if !ok {
		return nil, false
	}
	b := slot.Load()
	return b, b != nil
}

// Ready 返回已加载模型包的 pathway。
func (r *Registry) Ready() []core.Pathway {
	out := make([]core.Pathway, 0, len(r.bundles))
	for _, p := range core.Pathways() {
		if _, ok := r.Get(p); ok {
			out = append(out, p)
		}
	}
	return out
}
