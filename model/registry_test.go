package model

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/core"
)

type mapBundleStore struct {
	mu      sync.Mutex
	bundles map[string]*Bundle
}

func (s *mapBundleStore) Load(_ context.Context, pathway string) (*Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[pathway]
	if !ok {
		return nil, core.NewDomainError(core.ModuleBundle, core.ErrorCodeNotFound, "bundle not found")
	}
	return b, nil
}

func (s *mapBundleStore) Save(_ context.Context, b *Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[b.Pathway] = b
	return nil
}

func TestRegistry_LoadAllPartial(t *testing.T) {
	store := &mapBundleStore{bundles: map[string]*Bundle{"career": careerBundle()}}
	r := NewRegistry(store, nil)

	assert.Equal(t, 1, r.LoadAll(context.Background()))
	assert.Equal(t, []core.Pathway{core.PathwayCareer}, r.Ready())

	_, ok := r.Get(core.PathwayTESDA)
	assert.False(t, ok)
	b, ok := r.Get(core.PathwayCareer)
	require.True(t, ok)
	assert.Equal(t, "career", b.Pathway)
}

func TestRegistry_SwapRejectsInvalid(t *testing.T) {
	r := NewRegistry(nil, nil)
	good := careerBundle()
	require.NoError(t, r.Swap(core.PathwayCareer, good))

	bad := careerBundle()
	bad.LabelEncoder = nil
	err := r.Swap(core.PathwayCareer, bad)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))

	// 旧模型包仍然生效
	cur, _ := r.Get(core.PathwayCareer)
	assert.Same(t, good, cur)

	err = r.Swap(core.PathwayTESDA, careerBundle())
	assert.True(t, core.IsInvalidInput(err))

	assert.ErrorIs(t, r.Swap(core.Pathway("foo"), good), core.ErrUnknownPathway)
}

func TestRegistry_LoadWithoutStore(t *testing.T) {
	r := NewRegistry(nil, nil)
	err := r.Load(context.Background(), core.PathwayCareer)
	assert.True(t, core.IsUnavailable(err))
}

func TestRegistry_ConcurrentSwap(t *testing.T) {
	r := NewRegistry(nil, nil)
	a, b := careerBundle(), careerBundle()
	require.NoError(t, r.Swap(core.PathwayCareer, a))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Swap(core.PathwayCareer, b)
		}()
		go func() {
			defer wg.Done()
			got, ok := r.Get(core.PathwayCareer)
			assert.True(t, ok)
			assert.True(t, got == a || got == b)
		}()
	}
	wg.Wait()
}
