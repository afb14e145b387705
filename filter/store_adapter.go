package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/pathwise/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 下架列表以 JSON 字符串数组存放。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取下架列表；key 不存在返回 NOT_FOUND。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.WrapDomainError(core.ModuleFilter, core.ErrorCodeNotFound, "blacklist not found", err)
		}
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// SetBlacklist 写入下架列表。
func (a *StoreAdapter) SetBlacklist(ctx context.Context, key string, titles []string) error {
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
