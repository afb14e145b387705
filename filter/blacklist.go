package filter

import (
	"context"
	"strings"

	"github.com/rushteam/pathwise/core"
)

// BlacklistFilter 过滤掉已下架的职位 / 课程 / 项目（按标题，大小写不敏感）。
// 下架列表可以写在配置里，也可以放在 Store 中由管理员维护。
type BlacklistFilter struct {
	// Titles 是配置中的下架标题
	Titles []string
	// Store 用于从存储中读取下架列表（可选）
	Store BlacklistStore
	// Key 是 Store 中的下架列表 key（可选）
	Key string
}

// BlacklistStore 是下架列表存储接口。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个下架过滤器。
func NewBlacklistFilter(titles []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		Titles: titles,
		Store:  store,
		Key:    key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Prepare 读取一次存储中的下架列表，与配置合并为不再访问存储的快照。
// key 不存在时只使用配置中的标题。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	titles, err := f.stored(ctx)
	if err != nil {
		return nil, err
	}
	merged := make([]string, 0, len(f.Titles)+len(titles))
	merged = append(merged, f.Titles...)
	merged = append(merged, titles...)
	return &BlacklistFilter{Titles: merged}, nil
}

func (f *BlacklistFilter) stored(ctx context.Context) ([]string, error) {
	if f.Store == nil || f.Key == "" {
		return nil, nil
	}
	titles, err := f.Store.GetBlacklist(ctx, f.Key)
	if core.IsNotFound(err) {
		return nil, nil
	}
	return titles, err
}

// ShouldFilter 单独使用时每次都会读取存储；在 FilterNode 中会先经过 Prepare。
func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if containsFold(f.Titles, item.Title) {
		return true, nil
	}
	titles, err := f.stored(ctx)
	if err != nil {
		return false, err
	}
	return containsFold(titles, item.Title), nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
