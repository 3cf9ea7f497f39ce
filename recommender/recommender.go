// Package recommender 是 moviekit 的对外门面：启动时加载 MovieLens 100k、
// 构建相似度矩阵与评分矩阵，之后对外提供四个只读操作：
// Recommend / TopRated / Stats / ListMovies。
//
// Recommender 是显式的不可变上下文对象：构建一次，传入每个请求处理调用。
// 构建完成后的结构只读，打分调用之间不需要任何锁。
package recommender

import (
	"context"
	"sort"
	"strings"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/recall"
	"github.com/moviekit/moviekit/similarity"
)

// 默认参数，与 MovieLens 参考实现一致。
const (
	defaultN          = 5
	defaultMinRatings = 20
	defaultListLimit  = 20
	topGenresLimit    = 10
)

// Recommender 持有加载完成的数据集与两张矩阵。
type Recommender struct {
	ds     *dataset.Dataset
	sim    *similarity.GenreSimilarity
	matrix *similarity.UserItemMatrix

	// hotStore/hotKey 可选：TopRated 优先读预计算榜单
	hotStore core.Store
	hotKey   string

	// post 可选：召回之后、出记录之前执行的过滤/重排链
	post *pipeline.Pipeline
}

// Option 配置 Recommender 的可选能力。
type Option func(*Recommender)

// WithHotStore 让 TopRated 优先从 Store 的预计算榜单读取。
func WithHotStore(s core.Store, key string) Option {
	return func(r *Recommender) {
		r.hotStore = s
		r.hotKey = key
	}
}

// WithPostPipeline 在每次召回之后执行给定的过滤/重排链。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(r *Recommender) {
		r.post = p
	}
}

// New 从数据目录加载数据集并构建全部推荐结构。
// 目录或文件缺失返回 DATASET_NOT_FOUND；失败时不返回半初始化的实例。
func New(ctx context.Context, dir string, opts ...Option) (*Recommender, error) {
	ds, err := dataset.Load(dir)
	if err != nil {
		return nil, err
	}
	return NewFromDataset(ctx, ds, opts...)
}

// NewFromDataset 从已构建的数据集创建 Recommender，测试用小表走这里。
func NewFromDataset(ctx context.Context, ds *dataset.Dataset, opts ...Option) (*Recommender, error) {
	sim, err := similarity.BuildGenreSimilarity(ctx, ds.Movies)
	if err != nil {
		return nil, err
	}
	r := &Recommender{
		ds:     ds,
		sim:    sim,
		matrix: similarity.BuildUserItemMatrix(ds.Ratings),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dataset 返回底层数据集（只读），供服务层构建依赖注入使用。
func (r *Recommender) Dataset() *dataset.Dataset { return r.ds }

// Sim 返回类型相似度矩阵（只读）。
func (r *Recommender) Sim() *similarity.GenreSimilarity { return r.sim }

// Matrix 返回用户-电影评分矩阵（只读）。
func (r *Recommender) Matrix() *similarity.UserItemMatrix { return r.matrix }

var errNotInitialized = core.NewDomainError(core.ModuleRecommender,
	core.ErrorCodeNotInitialized, "recommender: dataset not loaded")

// ready 校验实例可用，未初始化时所有操作统一报错而不是静默返回空结果。
func (r *Recommender) ready() error {
	if r == nil || r.ds == nil || r.sim == nil || r.matrix == nil {
		return errNotInitialized
	}
	return nil
}

// Recommend 按请求给出至多 N 条推荐。
// 单次打分中的任何 panic 都在此边界恢复并转为 INTERNAL_ERROR，
// 不会让进程崩溃，也不会影响共享的只读结构。
func (r *Recommender) Recommend(ctx context.Context, req Request) (recs []Record, err error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			recs = nil
			err = core.NewDomainErrorf(core.ModuleRecommender,
				core.ErrorCodeInternalError, "recommend: %v", p)
		}
	}()

	n := req.N
	if n <= 0 {
		n = defaultN
	}
	method := req.Method
	if method == "" {
		method = core.MethodContent
	}

	rctx := &core.RecommendContext{
		UserID:      req.UserID,
		Preferences: req.Preferences,
		Method:      method,
		N:           n,
	}

	switch method {
	case core.MethodContent:
		if strings.TrimSpace(req.Preferences) == "" {
			return nil, core.NewDomainError(core.ModuleRecommender,
				core.ErrorCodeInvalidRequest, "recommender: empty preferences for content method")
		}
		return r.contentRecommend(ctx, rctx, n)
	case core.MethodCollaborative:
		return r.collaborativeRecommend(ctx, rctx, n)
	case core.MethodHybrid:
		return r.hybridRecommend(ctx, rctx, n)
	default:
		return nil, core.NewDomainErrorf(core.ModuleRecommender,
			core.ErrorCodeInvalidRequest, "recommender: unknown method %q", method)
	}
}

func (r *Recommender) contentRecommend(ctx context.Context, rctx *core.RecommendContext, n int) ([]Record, error) {
	source := &recall.ContentRecall{Catalog: r.ds, TopK: n}
	items, err := source.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	// 没有任何正分候选：回退到热门兜底，结果与 TopRated 完全一致
	if len(items) == 0 {
		return r.TopRated(ctx, n, defaultMinRatings)
	}
	return r.finish(ctx, rctx, items, n)
}

func (r *Recommender) collaborativeRecommend(ctx context.Context, rctx *core.RecommendContext, n int) ([]Record, error) {
	// 匿名用户或不在评分矩阵中的用户：完全委托给热门兜底
	if rctx.UserID == 0 || !r.matrix.HasUser(rctx.UserID) {
		return r.TopRated(ctx, n, defaultMinRatings)
	}
	source := &recall.ItemCF{Catalog: r.ds, Sim: r.sim, Matrix: r.matrix, TopK: n}
	items, err := source.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, rctx, items, n)
}

func (r *Recommender) hybridRecommend(ctx context.Context, rctx *core.RecommendContext, n int) ([]Record, error) {
	fanout := &recall.Fanout{
		Sources: []recall.Source{
			&recall.ContentRecall{Catalog: r.ds, TopK: n},
			&recall.ItemCF{Catalog: r.ds, Sim: r.sim, Matrix: r.matrix, TopK: n},
		},
		Dedup:         true,
		MergeStrategy: "priority",
	}
	items, err := fanout.Process(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return r.TopRated(ctx, n, defaultMinRatings)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return r.finish(ctx, rctx, items, n)
}

// finish 执行可选的后置链，截断到 n 并转为记录。
func (r *Recommender) finish(ctx context.Context, rctx *core.RecommendContext, items []*core.Item, n int) ([]Record, error) {
	if r.post != nil {
		filtered, err := r.post.Run(ctx, rctx, items)
		if err != nil {
			return nil, err
		}
		items = filtered
	}
	if len(items) > n {
		items = items[:n]
	}

	out := make([]Record, 0, len(items))
	for _, it := range items {
		m, ok := r.ds.MovieByID(it.ID)
		if !ok {
			continue
		}
		out = append(out, newRecord(m, sourceOf(it)))
	}
	return out, nil
}

// TopRated 返回评分数不低于 minRatings 的电影中平均分最高的 n 部。
// minRatings <= 0 时取默认值 20；平均分相同的电影保持表内行序。
func (r *Recommender) TopRated(ctx context.Context, n, minRatings int) ([]Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = defaultN
	}
	if minRatings <= 0 {
		minRatings = defaultMinRatings
	}

	source := &recall.TopRated{
		Catalog:    r.ds,
		Store:      r.hotStore,
		Key:        r.hotKey,
		TopK:       n,
		MinRatings: minRatings,
	}
	items, err := source.Recall(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(items))
	for _, it := range items {
		m, ok := r.ds.MovieByID(it.ID)
		if !ok {
			continue
		}
		out = append(out, newRecord(m, sourceOf(it)))
	}
	return out, nil
}

// Stats 返回数据集统计：总量、类型列表、全体评分均值与 Top 10 类型组合。
func (r *Recommender) Stats(_ context.Context) (*Stats, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var sum float64
	for _, rating := range r.ds.Ratings {
		sum += rating.Rating
	}
	avg := 0.0
	if len(r.ds.Ratings) > 0 {
		avg = sum / float64(len(r.ds.Ratings))
	}

	return &Stats{
		TotalMovies:  len(r.ds.Movies),
		TotalRatings: len(r.ds.Ratings),
		TotalUsers:   len(r.ds.Users),
		Genres:       dataset.GenreNames(),
		AvgRating:    avg,
		TopGenres:    r.topGenres(topGenresLimit),
	}, nil
}

// topGenres 统计类型标签组合的出现次数，取出现最多的 limit 个。
// 次数相同按标签字典序，结果确定。
func (r *Recommender) topGenres(limit int) map[string]int {
	counts := make(map[string]int)
	for i := range r.ds.Movies {
		counts[r.ds.Movies[i].GenreLabel]++
	}

	type labelCount struct {
		label string
		count int
	}
	all := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		all = append(all, labelCount{label: label, count: count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].label < all[j].label
	})
	if len(all) > limit {
		all = all[:limit]
	}

	out := make(map[string]int, len(all))
	for _, lc := range all {
		out[lc.label] = lc.count
	}
	return out
}

// ListMovies 按类型过滤电影列表，按评分数降序取前 limit 部。
// genre 不是 19 个类型名之一时不过滤；limit <= 0 时取默认值 20。
// 评分数相同的电影保持表内行序。
func (r *Recommender) ListMovies(_ context.Context, genre string, limit int) ([]MovieSummary, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	filtered := make([]*dataset.Movie, 0, len(r.ds.Movies))
	byGenre := dataset.IsGenre(genre)
	for i := range r.ds.Movies {
		m := &r.ds.Movies[i]
		if byGenre && !m.HasGenre(genre) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RatingCount > filtered[j].RatingCount
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]MovieSummary, 0, len(filtered))
	for _, m := range filtered {
		out = append(out, MovieSummary{
			ID:          m.ID,
			Title:       m.CleanTitle,
			Year:        yearOrNA(m.Year),
			Genres:      m.GenreLabel,
			Rating:      round1(m.AvgRating),
			RatingCount: m.RatingCount,
		})
	}
	return out, nil
}
