package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rushteam/pathwise/core"
)

func newAdmin(f *fixture) *Admin {
	return &Admin{
		Users:    f.sql,
		Store:    f.sql,
		Popular:  f.kv,
		Prefix:   testPrefix,
		Trainer:  f.trainer,
		Registry: f.registry,
		Username: "admin",
		Password: "secret",
	}
}

func TestAdmin_Authenticate(t *testing.T) {
	a := &Admin{Username: "admin", Password: "secret"}
	assert.NoError(t, a.Authenticate("admin", "secret"))
	assert.True(t, core.IsUnauthorized(a.Authenticate("admin", "nope")))
	assert.True(t, core.IsUnauthorized(a.Authenticate("root", "secret")))

	locked := &Admin{Username: "admin"}
	assert.Error(t, locked.Authenticate("admin", ""))
}

func TestAdmin_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := newAdmin(f)

	accounts := &Accounts{Users: f.sql, Cost: bcrypt.MinCost}
	u, err := accounts.CreateAccount(ctx, "maria", "pw", "pw")
	require.NoError(t, err)

	_, err = f.recommender.Submit(ctx, u.ID, "career", map[string]string{"industry": "tech"})
	require.NoError(t, err)
	_, err = f.recommender.SaveRecommendation(ctx, u.ID, "career", core.NewItem("QA Engineer", 95))
	require.NoError(t, err)
	_, err = f.recommender.SaveRecommendation(ctx, u.ID, "tesda", core.NewItem("Cookery NC II", 70))
	require.NoError(t, err)

	stats, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalRecommendations)
	assert.Equal(t, int64(1), stats.SavedByPathway[core.PathwayCareer])
	assert.Equal(t, int64(0), stats.SavedByPathway[core.PathwayEducation])
	assert.Equal(t, int64(1), stats.ResponsesByPathway[core.PathwayCareer])
	assert.Equal(t, []core.PopularTitle{{Title: "QA Engineer", Saves: 1}}, stats.PopularTitles[core.PathwayCareer])
}

func TestAdmin_Retrain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := newAdmin(f)

	before, _ := f.registry.Get(core.PathwayTESDA)
	done, err := a.Retrain(ctx, "tesda")
	require.NoError(t, err)
	assert.Equal(t, []core.Pathway{core.PathwayTESDA}, done)
	after, _ := f.registry.Get(core.PathwayTESDA)
	assert.NotSame(t, before, after)

	done, err = a.Retrain(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, core.Pathways(), done)

	_, err = a.Retrain(ctx, "nursing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all, career, education, tesda")

	// 某个 pathway 的数据集缺失不影响其它 pathway
	a.Trainer = &Trainer{Datasets: map[string]string{"career": "testdata/career.csv", "tesda": "testdata/missing.csv"}}
	careerBefore, _ := f.registry.Get(core.PathwayCareer)
	tesdaBefore, _ := f.registry.Get(core.PathwayTESDA)
	done, err = a.Retrain(ctx, "all")
	require.Error(t, err)
	assert.Equal(t, []core.Pathway{core.PathwayCareer}, done)
	careerAfter, _ := f.registry.Get(core.PathwayCareer)
	assert.NotSame(t, careerBefore, careerAfter)
	tesda, ok := f.registry.Get(core.PathwayTESDA)
	require.True(t, ok)
	assert.Same(t, tesdaBefore, tesda, "failed retrain keeps the previous bundle")
}

func TestAdmin_Users(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := newAdmin(f)
	accounts := &Accounts{Users: f.sql, Cost: bcrypt.MinCost}

	u, err := accounts.CreateAccount(ctx, "maria", "pw", "pw")
	require.NoError(t, err)
	_, err = accounts.CreateAccount(ctx, "jose", "pw", "pw")
	require.NoError(t, err)
	saved, err := f.recommender.SaveRecommendation(ctx, u.ID, "career", core.NewItem("Nurse", 61))
	require.NoError(t, err)

	users, err := a.ListUsers(ctx, "mar")
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, a.DeleteRecommendation(ctx, saved.ID))
	assert.True(t, core.IsNotFound(a.DeleteRecommendation(ctx, saved.ID)))

	require.NoError(t, a.DeleteUser(ctx, "maria"))
	_, err = accounts.Authenticate(ctx, "maria", "pw")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}
