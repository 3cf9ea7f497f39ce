package filter

import (
	"context"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
)

// Catalog 是过滤器需要的电影目录只读视图，由 dataset.Dataset 实现。
type Catalog interface {
	MovieByID(movieID int64) (*dataset.Movie, bool)
}

// MinRatingsFilter 过滤掉评分数低于门槛的电影，以及目录中不存在的 ID。
// 证据不足的电影（评得太少）不该出现在任何推荐结果里。
type MinRatingsFilter struct {
	Catalog Catalog

	// Min 评分数门槛，<=0 时取 5。
	Min int
}

func (f *MinRatingsFilter) Name() string {
	return "filter.min_ratings"
}

func (f *MinRatingsFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || f.Catalog == nil {
		return true, nil
	}
	min := f.Min
	if min <= 0 {
		min = 5
	}
	m, ok := f.Catalog.MovieByID(item.ID)
	if !ok {
		return true, nil
	}
	return m.RatingCount < min, nil
}
