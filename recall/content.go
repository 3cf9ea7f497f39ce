package recall

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/pkg/utils"
)

// ContentRecall 是基于内容的召回源：把自由文本偏好与电影的类型标签、
// 干净标题做关键词匹配，再用平均评分对原始关键词得分做乘法缩放。
//
// 打分规则：
//   - 偏好文本小写化
//   - 每个同时出现在偏好文本与类型标签中的类型名 +2
//   - 偏好中每个字符数 >3 且是干净标题子串的词 +1（不区分大小写）
//   - 得分 ×（平均评分 / 5），0 分电影被完全压制
//
// 评分数低于 MinRatingCount 的电影直接排除在候选之外，而不是降权。
// 同分候选保持电影表原始行序（稳定排序），结果确定。
type ContentRecall struct {
	Catalog Catalog

	// TopK 返回条数；<=0 时取请求的 N。
	TopK int

	// MinRatingCount 候选的最低评分数门槛，<=0 时取 5。
	MinRatingCount int
}

func (r *ContentRecall) Name() string        { return "recall.content" }
func (r *ContentRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ContentRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。偏好为空或没有任何正分候选时返回空结果，
// 是否回退到热门兜底由上层（recommender）决定。
func (r *ContentRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.Preferences == "" {
		return nil, nil
	}

	prefs := strings.ToLower(rctx.Preferences)
	words := strings.Fields(prefs)

	minCount := r.MinRatingCount
	if minCount <= 0 {
		minCount = 5
	}

	type scoredMovie struct {
		movie *dataset.Movie
		score float64
	}
	movies := r.Catalog.AllMovies()
	scored := make([]scoredMovie, 0)

	for i := range movies {
		m := &movies[i]
		if m.RatingCount < minCount {
			continue
		}

		var score float64
		labelLower := strings.ToLower(m.GenreLabel)
		for _, genre := range dataset.Genres {
			g := strings.ToLower(genre)
			if strings.Contains(prefs, g) && strings.Contains(labelLower, g) {
				score += 2
			}
		}

		titleLower := strings.ToLower(m.CleanTitle)
		for _, word := range words {
			// 词长按字符数算：标题里有重音字符，按字节数会把 3 字词误判为长词
			if utf8.RuneCountInString(word) > 3 && strings.Contains(titleLower, word) {
				score++
			}
		}

		score *= m.AvgRating / 5.0
		if score > 0 {
			scored = append(scored, scoredMovie{movie: m, score: score})
		}
	}

	// 稳定排序：同分保持表内行序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if k := topK(r.TopK, rctx); len(scored) > k {
		scored = scored[:k]
	}

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(s.movie.ID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		it.PutLabel("genres", utils.Label{Value: s.movie.GenreLabel, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
