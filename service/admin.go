package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
)

// PopularLimit 是统计中每个 pathway 展示的热门标题数。
const PopularLimit = 5

// Admin 是管理后台：统计、用户管理、强制删除收藏、重新训练。
type Admin struct {
	Users    core.UserStore
	Store    core.AdminStore
	Popular  core.KeyValueStore // 可选
	Prefix   string
	Trainer  *Trainer
	Registry *model.Registry

	Username string
	Password string

	Log *logger.Logger

	retrainMu sync.Mutex
}

// Authenticate 校验管理员账号。未配置密码时管理后台不可登录。
func (a *Admin) Authenticate(username, password string) error {
	if a.Password == "" {
		return core.ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	if !userOK || !passOK {
		return core.ErrInvalidCredentials
	}
	return nil
}

func (a *Admin) Stats(ctx context.Context) (*core.Stats, error) {
	users, err := a.Store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := a.Store.CountSavedByPathway(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := a.Store.CountResponsesByPathway(ctx)
	if err != nil {
		return nil, err
	}
	stats := &core.Stats{
		TotalUsers:         users,
		SavedByPathway:     make(map[core.Pathway]int64, 3),
		ResponsesByPathway: make(map[core.Pathway]int64, 3),
	}
	for _, p := range core.Pathways() {
		stats.SavedByPathway[p] = saved[p]
		stats.ResponsesByPathway[p] = responses[p]
		stats.TotalRecommendations += saved[p]
	}
	if a.Popular != nil {
		stats.PopularTitles = make(map[core.Pathway][]core.PopularTitle, 3)
		for _, p := range core.Pathways() {
			top, err := a.Popular.ZRevRangeWithScores(ctx, PopularKey(a.Prefix, p), 0, PopularLimit-1)
			if err != nil {
				a.logger().Warn("popular titles unavailable", "pathway", p, "error", err)
				continue
			}
			stats.PopularTitles[p] = top
		}
	}
	return stats, nil
}

func (a *Admin) logger() *logger.Logger {
	if a.Log == nil {
		return logger.NewNop()
	}
	return a.Log
}

// Retrain 重新训练 target（"all" 或单个 pathway），训练成功的模型包立即原子替换。
// 某个 pathway 失败不影响其它 pathway；返回成功替换的 pathway 与合并后的错误。
func (a *Admin) Retrain(ctx context.Context, target string) ([]core.Pathway, error) {
	var targets []core.Pathway
	if t := strings.TrimSpace(strings.ToLower(target)); t == "" || t == "all" {
		targets = core.Pathways()
	} else {
		p, ok := core.ParsePathway(t)
		if !ok {
			return nil, core.NewValidationError(core.ModuleTraining,
				fmt.Sprintf("unknown model type %q", target), append([]string{"all"}, pathwayChoices()...))
		}
		targets = []core.Pathway{p}
	}

	a.retrainMu.Lock()
	defer a.retrainMu.Unlock()

	var (
		done []core.Pathway
		errs []error
	)
	for _, p := range targets {
		b, err := a.Trainer.Retrain(ctx, p.String())
		if err == nil {
			err = a.Registry.Swap(p, b)
		}
		if err != nil {
			a.logger().Error("retrain failed", "pathway", p, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		done = append(done, p)
	}
	return done, errors.Join(errs...)
}

func (a *Admin) ListUsers(ctx context.Context, search string) ([]*core.User, error) {
	return a.Users.ListUsers(ctx, search)
}

func (a *Admin) DeleteUser(ctx context.Context, username string) error {
	return a.Users.DeleteUser(ctx, username)
}

// ListRecommendations 列出所有用户的收藏；pathway 为空时不过滤。
func (a *Admin) ListRecommendations(ctx context.Context, pathway string) ([]*core.SavedRecommendation, error) {
	var p core.Pathway
	if t := strings.TrimSpace(pathway); t != "" {
		var ok bool
		if p, ok = core.ParsePathway(t); !ok {
			return nil, core.NewValidationError(core.ModuleService,
				fmt.Sprintf("unknown pathway %q", pathway), pathwayChoices())
		}
	}
	return a.Store.ListAllSaved(ctx, p)
}

func (a *Admin) DeleteRecommendation(ctx context.Context, id uint) error {
	return a.Store.DeleteRecommendation(ctx, id)
}
