package recall

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/pkg/utils"
)

// TopRated 是热门兜底召回源：按平均评分降序返回评分数达到门槛的电影。
// 内容召回与协同过滤无法给出结果时统一回退到这里。
//
// 数据来源优先级：
//   - 如果配置了 Store 且实现 KeyValueStore，先用 ZRange 读预计算榜单
//   - 如果是普通 Store，从 Key 读 JSON 数组
//   - 否则（或榜单为空）在内存中按电影表现算
//
// 内存计算的平序规则：稳定排序，平均分相同的电影保持表内行序。
type TopRated struct {
	Catalog Catalog

	// Store/Key 可选，指向预计算榜单（例如 Redis 有序集合 "toprated:movies"）。
	Store core.Store
	Key   string

	// TopK 返回条数；<=0 时取请求的 N。
	TopK int

	// MinRatings 评分数门槛，<=0 时取 20。对两条路径都生效：
	// 预计算榜单里评分数低于门槛的条目同样会被剔除。
	MinRatings int
}

func (r *TopRated) Name() string        { return "recall.toprated" }
func (r *TopRated) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *TopRated) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *TopRated) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	k := topK(r.TopK, rctx)

	if ids := r.storedIDs(ctx, k); len(ids) > 0 {
		return r.itemsFromIDs(ids, k), nil
	}
	return r.compute(k), nil
}

// storedIDs 尝试从 Store 读预计算榜单，读不到返回 nil。
func (r *TopRated) storedIDs(ctx context.Context, k int) []int64 {
	if r.Store == nil || r.Key == "" {
		return nil
	}
	if kvStore, ok := r.Store.(core.KeyValueStore); ok {
		members, err := kvStore.ZRange(ctx, r.Key, 0, int64(k-1))
		if err != nil || len(members) == 0 {
			return nil
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		return ids
	}

	data, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		return nil
	}
	var parsed []int64
	if json.Unmarshal(data, &parsed) != nil {
		return nil
	}
	return parsed
}

// itemsFromIDs 把榜单 ID 转为候选：目录里不存在或评分数低于门槛的 ID 被跳过。
// 门槛是按次请求的，不能指望写入侧替所有调用方过滤。
func (r *TopRated) itemsFromIDs(ids []int64, k int) []*core.Item {
	minRatings := r.minRatings()
	out := make([]*core.Item, 0, k)
	for _, id := range ids {
		row, ok := r.Catalog.Row(id)
		if !ok {
			continue
		}
		m := &r.Catalog.AllMovies()[row]
		if m.RatingCount < minRatings {
			continue
		}
		out = append(out, r.newItem(m))
		if len(out) == k {
			break
		}
	}
	return out
}

func (r *TopRated) minRatings() int {
	if r.MinRatings > 0 {
		return r.MinRatings
	}
	return 20
}

// compute 在内存中按电影表现算榜单。
func (r *TopRated) compute(k int) []*core.Item {
	minRatings := r.minRatings()

	movies := r.Catalog.AllMovies()
	candidates := make([]*dataset.Movie, 0)
	for i := range movies {
		if movies[i].RatingCount >= minRatings {
			candidates = append(candidates, &movies[i])
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AvgRating > candidates[j].AvgRating
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, m := range candidates {
		out = append(out, r.newItem(m))
	}
	return out
}

func (r *TopRated) newItem(m *dataset.Movie) *core.Item {
	it := core.NewItem(m.ID)
	it.Score = m.AvgRating
	it.PutLabel("recall_source", utils.Label{Value: "toprated", Source: "recall"})
	it.PutLabel("genres", utils.Label{Value: m.GenreLabel, Source: "recall"})
	return it
}
