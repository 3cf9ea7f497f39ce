package recall

import (
	"context"
	"sort"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/pkg/utils"
	"github.com/moviekit/moviekit/similarity"
)

// ItemCF 是基于物品的协同过滤召回源（Item-based Collaborative Filtering）。
//
// 核心思想："用户给相似电影打过的分，预示着对候选电影的喜好"
//
// 算法流程：
//  1. 取用户在评分矩阵中评过分（>0）的电影集合
//  2. 对每部未评分的候选电影，预测喜好 = 用户所有已评电影上
//     (类型相似度 × 该电影评分) 的均值
//  3. 按预测喜好降序取 TopK
//
// 相似度查表一律经 Catalog.Row 的显式 ID→行位置映射；候选或已评电影的 ID
// 不在映射中（或行位置超出矩阵）时跳过该项，没有任何有效相似度项的候选
// 不参与排名。候选按电影 ID 升序遍历，同分时该顺序即最终平序。
type ItemCF struct {
	Catalog Catalog
	Sim     *similarity.GenreSimilarity
	Matrix  *similarity.UserItemMatrix

	// TopK 返回条数；<=0 时取请求的 N。
	TopK int
}

func (r *ItemCF) Name() string        { return "recall.collaborative" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。匿名用户或不在评分矩阵中的用户返回空结果，
// 由上层回退到热门兜底。
func (r *ItemCF) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.Sim == nil || r.Matrix == nil || rctx == nil {
		return nil, nil
	}
	if rctx.UserID == 0 || !r.Matrix.HasUser(rctx.UserID) {
		return nil, nil
	}

	rated := r.Matrix.UserRatings(rctx.UserID)
	if len(rated) == 0 {
		return nil, nil
	}

	type scoredMovie struct {
		movieID int64
		score   float64
	}
	scored := make([]scoredMovie, 0)

	for _, candidateID := range r.Matrix.MovieIDs() {
		if _, ok := rated[candidateID]; ok {
			continue
		}
		candRow, ok := r.Catalog.Row(candidateID)
		if !ok || candRow >= r.Sim.Size() {
			continue
		}

		var sum float64
		var n int
		for ratedID, rating := range rated {
			ratedRow, ok := r.Catalog.Row(ratedID)
			if !ok || ratedRow >= r.Sim.Size() {
				continue
			}
			sum += r.Sim.At(candRow, ratedRow) * rating
			n++
		}
		if n == 0 {
			continue
		}
		scored = append(scored, scoredMovie{movieID: candidateID, score: sum / float64(n)})
	}

	// 稳定排序：同分保持电影 ID 升序（候选遍历顺序）
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if k := topK(r.TopK, rctx); len(scored) > k {
		scored = scored[:k]
	}

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(s.movieID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
