package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pipeline"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/pkg/metrics"
)

// PopularKey 是 pathway 收藏热度有序集合的 key。
func PopularKey(prefix string, p core.Pathway) string {
	return prefix + "popular:" + string(p)
}

// Result 是一次提交的推荐结果。
type Result struct {
	Pathway core.Pathway `json:"pathway"`
	Items   []*core.Item `json:"recommendations"`
}

// Recommender 是问卷提交的编排入口：取模型包快照、构造答案、执行 pathway 对应的 Pipeline、
// 记录原始答案。也负责收藏的增删查。
type Recommender struct {
	Registry  *model.Registry
	Pipelines map[core.Pathway]*pipeline.Pipeline

	// Responses 保存原始答案，可选；失败只记日志，不影响推荐结果
	Responses core.ResponseStore
	// Saved 是收藏存储
	Saved core.RecommendationStore
	// Popular 记录每个标题被收藏的次数，可选
	Popular core.KeyValueStore
	Prefix  string

	Log *logger.Logger
}

func (r *Recommender) logger() *logger.Logger {
	if r.Log == nil {
		return logger.NewNop()
	}
	return r.Log
}

// Submit 为 userID 执行一次推荐。
//
//   - 未知 pathway：返回空结果，不报错
//   - 模型包未就绪：core.ErrBundleUnavailable
//   - 学历与项目类型不匹配：INVALID_INPUT，Allowed 中是可选项目类型
//   - 继续教育没有匹配的项目：core.ErrNoProgramsMatched
//
// 整个请求使用同一个模型包快照，期间的重新训练不影响本次结果。
func (r *Recommender) Submit(ctx context.Context, userID uint, pathway string, raw map[string]string) (res *Result, err error) {
	p, ok := core.ParsePathway(pathway)
	if !ok {
		return &Result{Pathway: core.Pathway(strings.ToLower(strings.TrimSpace(pathway))), Items: []*core.Item{}}, nil
	}

	log := r.logger().With("pathway", p, "user_id", userID)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("pipeline panic", "panic", rec, "stack", string(debug.Stack()))
			res = nil
			err = core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError,
				fmt.Sprintf("recommendation failed: %v", rec))
		}
		metrics.Submissions.WithLabelValues(p.String(), outcome(err)).Inc()
		metrics.PipelineDuration.WithLabelValues(p.String()).Observe(time.Since(start).Seconds())
	}()

	b, ok := r.Registry.Get(p)
	if !ok {
		return nil, core.ErrBundleUnavailable
	}
	pl, ok := r.Pipelines[p]
	if !ok || pl == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError,
			fmt.Sprintf("no pipeline configured for %s", p))
	}

	answers, err := core.NewAnswers(p, raw)
	if err != nil {
		return nil, err
	}
	rctx := core.NewRecommendContext(userID, answers)

	items, err := pl.Run(model.WithBundle(ctx, b), rctx, nil)
	if err != nil {
		if !core.IsDomainError(err) {
			log.Error("pipeline failed", "error", err)
		}
		return nil, err
	}
	if items == nil {
		items = []*core.Item{}
	}

	if r.Responses != nil {
		if err := r.Responses.SaveResponse(ctx, userID, p, answers.Raw()); err != nil {
			// 答案记录失败不影响推荐
			metrics.StorageErrors.WithLabelValues("save_response").Inc()
			log.Warn("save response failed", "error", err)
		}
	}
	log.Debug("recommendations served", "count", len(items), "features", rctx.Features)
	return &Result{Pathway: p, Items: items}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case core.IsUnavailable(err):
		return "unavailable"
	case core.IsInvalidInput(err):
		return "invalid"
	case core.IsEmptyResult(err):
		return "empty"
	default:
		return "error"
	}
}

func pathwayChoices() []string {
	out := make([]string, 0, 3)
	for _, p := range core.Pathways() {
		out = append(out, p.String())
	}
	return out
}

// SaveRecommendation 收藏一条推荐。存储失败直接返回给调用方；热度计数是尽力而为。
func (r *Recommender) SaveRecommendation(ctx context.Context, userID uint, pathway string, item *core.Item) (*core.SavedRecommendation, error) {
	p, ok := core.ParsePathway(pathway)
	if !ok {
		return nil, core.NewValidationError(core.ModuleService,
			fmt.Sprintf("unknown pathway %q", pathway), pathwayChoices())
	}
	saved, err := r.Saved.SaveRecommendation(ctx, userID, p, item)
	if err != nil {
		return nil, err
	}
	if r.Popular != nil {
		if err := r.Popular.ZIncrBy(ctx, PopularKey(r.Prefix, p), 1, saved.Item.Title); err != nil {
			r.logger().Warn("popular counter update failed", "pathway", p, "error", err)
		}
	}
	return saved, nil
}

func (r *Recommender) ListSaved(ctx context.Context, userID uint) ([]*core.SavedRecommendation, error) {
	return r.Saved.ListSaved(ctx, userID)
}

func (r *Recommender) DeleteSaved(ctx context.Context, id, userID uint) error {
	return r.Saved.DeleteSaved(ctx, id, userID)
}
