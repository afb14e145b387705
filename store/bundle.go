package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
)

func bundleNotFound(pathway string, err error) error {
	return core.WrapDomainError(core.ModuleBundle, core.ErrorCodeNotFound,
		fmt.Sprintf("bundle %s not found", pathway), err)
}

func bundleCorrupt(pathway string, err error) error {
	return core.WrapDomainError(core.ModuleBundle, core.ErrorCodeUnavailable,
		fmt.Sprintf("bundle %s is corrupt", pathway), err)
}

// FileBundleStore 把模型包保存为目录下的 model_<pathway>.msgpack。
type FileBundleStore struct {
	Dir string
}

func NewFileBundleStore(dir string) *FileBundleStore {
	return &FileBundleStore{Dir: dir}
}

func (s *FileBundleStore) path(pathway string) string {
	return filepath.Join(s.Dir, "model_"+pathway+".msgpack")
}

func (s *FileBundleStore) Load(_ context.Context, pathway string) (*model.Bundle, error) {
	data, err := os.ReadFile(s.path(pathway))
	if errors.Is(err, os.ErrNotExist) {
		return nil, bundleNotFound(pathway, err)
	}
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleBundle, core.ErrorCodeUnavailable,
			fmt.Sprintf("bundle %s cannot be read", pathway), err)
	}
	b, err := model.DecodeBundle(data)
	if err != nil {
		return nil, bundleCorrupt(pathway, err)
	}
	return b, nil
}

// Save 先写临时文件再 rename，读者不会看到写了一半的文件。
func (s *FileBundleStore) Save(_ context.Context, b *model.Bundle) error {
	data, err := model.EncodeBundle(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, ".model_"+b.Pathway+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(b.Pathway))
}

// KVBundleStore 把模型包存放在任意 core.Store（内存 / Redis），key 为 <prefix>bundle:<pathway>。
// 多个实例共享同一个 Redis 时，一处重新训练，其它实例重新 Load 即可拿到新模型包。
type KVBundleStore struct {
	Store  core.Store
	Prefix string
}

func NewKVBundleStore(s core.Store, prefix string) *KVBundleStore {
	return &KVBundleStore{Store: s, Prefix: prefix}
}

func (s *KVBundleStore) key(pathway string) string {
	return s.Prefix + "bundle:" + pathway
}

func (s *KVBundleStore) Load(ctx context.Context, pathway string) (*model.Bundle, error) {
	data, err := s.Store.Get(ctx, s.key(pathway))
	if core.IsStoreNotFound(err) {
		return nil, bundleNotFound(pathway, err)
	}
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleBundle, core.ErrorCodeUnavailable,
			fmt.Sprintf("bundle %s cannot be read", pathway), err)
	}
	b, err := model.DecodeBundle(data)
	if err != nil {
		return nil, bundleCorrupt(pathway, err)
	}
	return b, nil
}

func (s *KVBundleStore) Save(ctx context.Context, b *model.Bundle) error {
	data, err := model.EncodeBundle(b)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, s.key(b.Pathway), data)
}

var (
	_ model.BundleStore = (*FileBundleStore)(nil)
	_ model.BundleStore = (*KVBundleStore)(nil)
)
